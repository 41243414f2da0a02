package progress

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"

	"github.com/juanflix/nowplaying/internal/models"
)

// DecodeBitfield unpacks an MSB-first bitfield (bit 7 of byte 0 is piece 0)
// into a bitset of numPieces bits. Trailing padding bits are ignored.
func DecodeBitfield(numPieces int, raw []byte) (*bitset.BitSet, error) {
	if numPieces < 0 {
		return nil, fmt.Errorf("invalid piece count %d", numPieces)
	}
	if need := (numPieces + 7) / 8; len(raw) < need {
		return nil, fmt.Errorf("bitfield has %d bytes, need %d for %d pieces", len(raw), need, numPieces)
	}

	bits := bitset.New(uint(numPieces))
	for i := 0; i < numPieces; i++ {
		if raw[i/8]&(1<<(7-uint(i%8))) != 0 {
			bits.Set(uint(i))
		}
	}
	return bits, nil
}

// DecodeBase64Bitfield decodes a base64 MSB-first bitfield as reported by the torrent engine.
func DecodeBase64Bitfield(numPieces int, encoded string) (*bitset.BitSet, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode bitfield: %w", err)
	}
	return DecodeBitfield(numPieces, raw)
}

// EncodeBitfield packs the first numPieces bits of presence MSB-first.
func EncodeBitfield(presence Presence, numPieces int) []byte {
	buf := make([]byte, (numPieces+7)/8)
	for i := 0; i < numPieces; i++ {
		if presence.Test(uint(i)) {
			buf[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	return buf
}

// CountPresent returns the number of present pieces in [startPiece, endPiece].
func CountPresent(presence Presence, startPiece, endPiece int) int {
	count := 0
	for i := max(startPiece, 0); i <= endPiece && i < int(presence.Len()); i++ {
		if presence.Test(uint(i)) {
			count++
		}
	}
	return count
}

type snapshotJSON struct {
	NumPieces int                   `json:"numPieces"`
	Bitfield  string                `json:"bitfield"`
	Files     []models.FileProgress `json:"files"`
}

// ParseSnapshot reads an engine progress report of the form
// {"numPieces": n, "bitfield": "<base64>", "files": [{"path", "name", "startPiece", "endPiece", "numPieces"}]}.
// NumPiecesPresent is recomputed from the bitfield for every file.
func ParseSnapshot(r io.Reader) (models.TorrentProgress, error) {
	var raw snapshotJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return models.TorrentProgress{}, fmt.Errorf("failed to parse progress snapshot: %w", err)
	}

	bits, err := DecodeBase64Bitfield(raw.NumPieces, raw.Bitfield)
	if err != nil {
		return models.TorrentProgress{}, err
	}

	files := make([]models.FileProgress, len(raw.Files))
	for i, f := range raw.Files {
		if f.NumPieces == 0 && f.EndPiece >= f.StartPiece {
			f.NumPieces = f.EndPiece - f.StartPiece + 1
		}
		f.NumPiecesPresent = CountPresent(bits, f.StartPiece, f.EndPiece)
		files[i] = f
	}

	return models.TorrentProgress{Files: files, Bitfield: bits}, nil
}
