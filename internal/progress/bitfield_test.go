package progress

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/bits-and-blooms/bitset"
)

func TestDecodeBitfield(t *testing.T) {
	t.Parallel()
	// 0b1011_0000, 0b0100_0000 -> pieces 0, 2, 3, 9
	bits, err := DecodeBitfield(10, []byte{0xB0, 0x40})
	if err != nil {
		t.Fatalf("DecodeBitfield failed: %v", err)
	}

	if bits.Len() != 10 {
		t.Errorf("Len() = %d, want 10", bits.Len())
	}
	want := map[uint]bool{0: true, 2: true, 3: true, 9: true}
	for i := uint(0); i < 10; i++ {
		if bits.Test(i) != want[i] {
			t.Errorf("piece %d: got %v, want %v", i, bits.Test(i), want[i])
		}
	}
}

func TestDecodeBitfield_IgnoresPadding(t *testing.T) {
	t.Parallel()
	bits, err := DecodeBitfield(3, []byte{0xFF})
	if err != nil {
		t.Fatalf("DecodeBitfield failed: %v", err)
	}
	if bits.Count() != 3 {
		t.Errorf("Count() = %d, want 3", bits.Count())
	}
}

func TestDecodeBitfield_Errors(t *testing.T) {
	t.Parallel()
	if _, err := DecodeBitfield(9, []byte{0xFF}); err == nil {
		t.Error("Expected error for a short bitfield")
	}
	if _, err := DecodeBitfield(-1, nil); err == nil {
		t.Error("Expected error for a negative piece count")
	}
	if _, err := DecodeBase64Bitfield(8, "not base64!"); err == nil {
		t.Error("Expected error for invalid base64")
	}
}

func TestEncodeBitfield_RoundTrip(t *testing.T) {
	t.Parallel()
	bits := bitset.New(12)
	bits.Set(0).Set(5).Set(11)

	encoded := EncodeBitfield(bits, 12)
	if len(encoded) != 2 {
		t.Fatalf("EncodeBitfield produced %d bytes, want 2", len(encoded))
	}
	if encoded[0] != 0x84 || encoded[1] != 0x10 {
		t.Errorf("EncodeBitfield = %08b %08b, want 10000100 00010000", encoded[0], encoded[1])
	}

	decoded, err := DecodeBitfield(12, encoded)
	if err != nil {
		t.Fatalf("DecodeBitfield failed: %v", err)
	}
	if !decoded.Equal(bits) {
		t.Errorf("Round trip mismatch: %v != %v", decoded, bits)
	}
}

func TestParseSnapshot(t *testing.T) {
	t.Parallel()
	// pieces 0..7: 1110 0110
	bitfield := base64.StdEncoding.EncodeToString([]byte{0xE6})
	body := `{
		"numPieces": 8,
		"bitfield": "` + bitfield + `",
		"files": [
			{"path": "/dl/show/sub.srt", "name": "sub.srt", "startPiece": 0, "endPiece": 2},
			{"path": "/dl/show/ep.mkv", "name": "ep.mkv", "startPiece": 3, "endPiece": 7, "numPieces": 5}
		]
	}`

	snapshot, err := ParseSnapshot(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ParseSnapshot failed: %v", err)
	}

	if len(snapshot.Files) != 2 {
		t.Fatalf("Expected 2 files, got %d", len(snapshot.Files))
	}
	sub := snapshot.Files[0]
	if sub.NumPieces != 3 || sub.NumPiecesPresent != 3 || !sub.Complete() {
		t.Errorf("subtitle file progress = %+v, want 3/3 complete", sub)
	}
	ep := snapshot.Files[1]
	if ep.NumPieces != 5 || ep.NumPiecesPresent != 2 || ep.Complete() {
		t.Errorf("episode file progress = %+v, want 2/5 incomplete", ep)
	}

	parts, err := CompressFile(snapshot, 1)
	if err != nil {
		t.Fatalf("CompressFile failed: %v", err)
	}
	if len(parts) != 1 || parts[0].Start != 2 || parts[0].Count != 2 {
		t.Errorf("CompressFile = %v, want [{2 2}]", parts)
	}
}

func TestParseSnapshot_Invalid(t *testing.T) {
	t.Parallel()
	if _, err := ParseSnapshot(strings.NewReader("{")); err == nil {
		t.Error("Expected error for malformed JSON")
	}
	if _, err := ParseSnapshot(strings.NewReader(`{"numPieces": 16, "bitfield": "AA=="}`)); err == nil {
		t.Error("Expected error for a bitfield shorter than numPieces")
	}
}
