// Package progress turns torrent piece bitmaps into the run-length form used
// to draw a file's loading bar.
package progress

import (
	"github.com/juanflix/nowplaying/internal/apperrors"
	"github.com/juanflix/nowplaying/internal/models"
)

// Presence is a read-only view over one presence bit per torrent piece.
// *bitset.BitSet satisfies it.
type Presence interface {
	Len() uint
	Test(i uint) bool
}

// Bools adapts a plain boolean slice to Presence.
type Bools []bool

func (b Bools) Len() uint { return uint(len(b)) }

func (b Bools) Test(i uint) bool {
	return i < uint(len(b)) && b[i]
}

// Compress returns the maximal runs of present pieces in [startPiece, endPiece],
// with offsets relative to startPiece. An empty range (startPiece > endPiece)
// yields no intervals; bounds outside the bitmap yield an ErrInvalidRange.
//
// presence is only read. Callers sharing a bitmap with a writer must pass a copy.
func Compress(presence Presence, startPiece, endPiece int) ([]models.ProgressInterval, error) {
	if startPiece > endPiece {
		return []models.ProgressInterval{}, nil
	}

	length := int(presence.Len())
	if startPiece < 0 || endPiece >= length {
		return nil, apperrors.NewInvalidRangeError(startPiece, endPiece, length)
	}

	parts := []models.ProgressInterval{}
	lastPresent := false
	for i := startPiece; i <= endPiece; i++ {
		present := presence.Test(uint(i))
		if present && !lastPresent {
			parts = append(parts, models.ProgressInterval{Start: i - startPiece, Count: 1})
		} else if present {
			parts[len(parts)-1].Count++
		}
		lastPresent = present
	}

	return parts, nil
}

// CompressFile compresses the piece range of the file at fileIndex in a progress snapshot.
func CompressFile(snapshot models.TorrentProgress, fileIndex int) ([]models.ProgressInterval, error) {
	if fileIndex < 0 || fileIndex >= len(snapshot.Files) {
		return nil, apperrors.NewFileNotFoundError(fileIndex)
	}
	file := snapshot.Files[fileIndex]
	if snapshot.Bitfield == nil {
		return nil, apperrors.NewInvalidRangeError(file.StartPiece, file.EndPiece, 0)
	}
	return Compress(snapshot.Bitfield, file.StartPiece, file.EndPiece)
}

// Percent returns the whole-number download percentage of a file.
func Percent(file models.FileProgress) int {
	if file.NumPieces <= 0 {
		return 0
	}
	return 100 * file.NumPiecesPresent / file.NumPieces
}

// Segments converts intervals into loading-bar parts positioned in percent of numPieces.
func Segments(parts []models.ProgressInterval, numPieces int) []models.Segment {
	if numPieces <= 0 {
		return nil
	}
	segments := make([]models.Segment, 0, len(parts))
	for _, part := range parts {
		segments = append(segments, models.Segment{
			Left:  100 * float64(part.Start) / float64(numPieces),
			Width: 100 * float64(part.Count) / float64(numPieces),
		})
	}
	return segments
}
