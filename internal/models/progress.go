package models

import "github.com/bits-and-blooms/bitset"

// ProgressInterval is a run of consecutive downloaded pieces, relative to the start of a file
type ProgressInterval struct {
	Start int `json:"start"` // Offset within the file's piece range (0-based)
	Count int `json:"count"` // Number of consecutive present pieces
}

// End returns the exclusive end offset of the interval
func (p ProgressInterval) End() int {
	return p.Start + p.Count
}

// Segment is a loading-bar part expressed in percent of the file length
type Segment struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

// FileProgress describes the piece range of one torrent file and how much of it is downloaded
type FileProgress struct {
	Path             string `json:"path"`       // Absolute path of the file on disk
	Name             string `json:"name"`       // Display name, used for extension checks
	StartPiece       int    `json:"startPiece"` // First piece index, inclusive
	EndPiece         int    `json:"endPiece"`   // Last piece index, inclusive
	NumPieces        int    `json:"numPieces"`
	NumPiecesPresent int    `json:"numPiecesPresent"`
}

// Complete reports whether every piece of the file has been downloaded
func (f FileProgress) Complete() bool {
	return f.NumPiecesPresent == f.NumPieces
}

// TorrentProgress is a point-in-time snapshot of the torrent engine's progress report
type TorrentProgress struct {
	Files    []FileProgress
	Bitfield *bitset.BitSet // One bit per torrent piece
}
