package progress

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/bits-and-blooms/bitset"

	"github.com/juanflix/nowplaying/internal/apperrors"
	"github.com/juanflix/nowplaying/internal/models"
)

func repeat(v bool, n int) Bools {
	b := make(Bools, n)
	for i := range b {
		b[i] = v
	}
	return b
}

func TestCompress(t *testing.T) {
	t.Parallel()
	const T, F = true, false

	tests := []struct {
		name     string
		presence Bools
		start    int
		end      int
		expected []models.ProgressInterval
	}{
		{
			name:     "mixed runs",
			presence: Bools{T, F, T, T, F, T},
			start:    0,
			end:      5,
			expected: []models.ProgressInterval{{Start: 0, Count: 1}, {Start: 2, Count: 2}, {Start: 5, Count: 1}},
		},
		{
			name:     "all absent",
			presence: repeat(false, 10),
			start:    0,
			end:      9,
			expected: []models.ProgressInterval{},
		},
		{
			name:     "all present with offset start",
			presence: repeat(true, 15),
			start:    5,
			end:      14,
			expected: []models.ProgressInterval{{Start: 0, Count: 10}},
		},
		{
			name:     "single present piece",
			presence: Bools{F, F, T, F},
			start:    0,
			end:      3,
			expected: []models.ProgressInterval{{Start: 2, Count: 1}},
		},
		{
			name:     "range ignores pieces outside the file",
			presence: Bools{T, T, F, T, T, T},
			start:    2,
			end:      4,
			expected: []models.ProgressInterval{{Start: 1, Count: 2}},
		},
		{
			name:     "single piece range",
			presence: Bools{F, T, F},
			start:    1,
			end:      1,
			expected: []models.ProgressInterval{{Start: 0, Count: 1}},
		},
		{
			name:     "empty range is not an error",
			presence: Bools{T, T},
			start:    1,
			end:      0,
			expected: []models.ProgressInterval{},
		},
		{
			name:     "empty range outside bitmap is not an error",
			presence: Bools{},
			start:    7,
			end:      3,
			expected: []models.ProgressInterval{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Compress(tt.presence, tt.start, tt.end)
			if err != nil {
				t.Fatalf("Compress returned error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Compress() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCompress_InvalidRange(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		start int
		end   int
	}{
		{"negative start", -1, 2},
		{"end past bitmap", 0, 4},
		{"both past bitmap", 4, 6},
	}

	presence := Bools{true, false, true, true}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Compress(presence, tt.start, tt.end)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !errors.Is(err, &apperrors.ErrInvalidRange{}) {
				t.Errorf("Expected ErrInvalidRange, got %T: %v", err, err)
			}
		})
	}
}

func TestCompress_DoesNotMutatePresence(t *testing.T) {
	t.Parallel()
	presence := Bools{true, false, true, true, false}
	before := append(Bools(nil), presence...)

	if _, err := Compress(presence, 0, 4); err != nil {
		t.Fatalf("Compress returned error: %v", err)
	}
	if !reflect.DeepEqual(presence, before) {
		t.Errorf("presence mutated: %v -> %v", before, presence)
	}
}

func TestCompress_BitSet(t *testing.T) {
	t.Parallel()
	bits := bitset.New(8)
	bits.Set(1).Set(2).Set(3).Set(6)

	got, err := Compress(bits, 0, 7)
	if err != nil {
		t.Fatalf("Compress returned error: %v", err)
	}
	expected := []models.ProgressInterval{{Start: 1, Count: 3}, {Start: 6, Count: 1}}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Compress() = %v, want %v", got, expected)
	}
}

// TestCompress_Properties checks the interval invariants against random bitmaps:
// the intervals cover exactly the present offsets, are sorted, and never touch.
func TestCompress_Properties(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(42, 7))

	for iter := 0; iter < 200; iter++ {
		n := 1 + rng.IntN(64)
		presence := make(Bools, n)
		for i := range presence {
			presence[i] = rng.IntN(3) != 0
		}
		start := rng.IntN(n)
		end := start + rng.IntN(n-start)

		parts, err := Compress(presence, start, end)
		if err != nil {
			t.Fatalf("iteration %d: Compress returned error: %v", iter, err)
		}

		covered := make(map[int]bool)
		for i, part := range parts {
			if part.Count < 1 {
				t.Fatalf("iteration %d: empty interval %v", iter, part)
			}
			if i > 0 && part.Start <= parts[i-1].End() {
				t.Fatalf("iteration %d: intervals %v and %v overlap or are adjacent", iter, parts[i-1], part)
			}
			for off := part.Start; off < part.End(); off++ {
				covered[off] = true
			}
		}

		want := 0
		for off := 0; off <= end-start; off++ {
			if presence[start+off] {
				want++
				if !covered[off] {
					t.Fatalf("iteration %d: present offset %d not covered by %v", iter, off, parts)
				}
			}
		}
		if len(covered) != want {
			t.Fatalf("iteration %d: intervals cover %d offsets, want %d", iter, len(covered), want)
		}
		if got := CountPresent(presence, start, end); got != want {
			t.Fatalf("iteration %d: CountPresent = %d, want %d", iter, got, want)
		}
	}
}

func TestCompressFile(t *testing.T) {
	t.Parallel()
	bits := bitset.New(10)
	bits.Set(4).Set(5).Set(8)

	snapshot := models.TorrentProgress{
		Files: []models.FileProgress{
			{Name: "sample.txt", StartPiece: 0, EndPiece: 2, NumPieces: 3},
			{Name: "movie.mkv", StartPiece: 3, EndPiece: 9, NumPieces: 7},
		},
		Bitfield: bits,
	}

	got, err := CompressFile(snapshot, 1)
	if err != nil {
		t.Fatalf("CompressFile returned error: %v", err)
	}
	expected := []models.ProgressInterval{{Start: 1, Count: 2}, {Start: 5, Count: 1}}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("CompressFile() = %v, want %v", got, expected)
	}

	if _, err := CompressFile(snapshot, 2); !errors.Is(err, &apperrors.ErrNotFound{}) {
		t.Errorf("Expected ErrNotFound for missing file index, got %v", err)
	}

	if _, err := CompressFile(models.TorrentProgress{Files: snapshot.Files}, 0); !errors.Is(err, &apperrors.ErrInvalidRange{}) {
		t.Errorf("Expected ErrInvalidRange without a bitfield, got %v", err)
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		file models.FileProgress
		want int
	}{
		{"half", models.FileProgress{NumPieces: 10, NumPiecesPresent: 5}, 50},
		{"rounds down", models.FileProgress{NumPieces: 3, NumPiecesPresent: 2}, 66},
		{"complete", models.FileProgress{NumPieces: 7, NumPiecesPresent: 7}, 100},
		{"no pieces", models.FileProgress{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Percent(tt.file); got != tt.want {
				t.Errorf("Percent() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSegments(t *testing.T) {
	t.Parallel()
	parts := []models.ProgressInterval{{Start: 0, Count: 1}, {Start: 2, Count: 2}}

	got := Segments(parts, 4)
	expected := []models.Segment{{Left: 0, Width: 25}, {Left: 50, Width: 50}}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Segments() = %v, want %v", got, expected)
	}

	if got := Segments(parts, 0); got != nil {
		t.Errorf("Segments() with zero pieces = %v, want nil", got)
	}
}

func BenchmarkCompress(b *testing.B) {
	presence := make(Bools, 4096)
	for i := range presence {
		presence[i] = i%7 != 0
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Compress(presence, 0, len(presence)-1)
	}
}
