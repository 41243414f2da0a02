// Package torrentx adapts an anacrolix/torrent torrent to the progress
// snapshots consumed by the playback session.
package torrentx

import (
	"path/filepath"

	"github.com/anacrolix/torrent"
	"github.com/bits-and-blooms/bitset"

	"github.com/juanflix/nowplaying/internal/models"
)

// File is the part of a torrent file the snapshot needs.
type File interface {
	// Path is relative to the client's data directory.
	Path() string
	DisplayPath() string
	BeginPieceIndex() int
	// EndPieceIndex is exclusive.
	EndPieceIndex() int
}

// Torrent is a torrent whose metadata is available.
type Torrent interface {
	NumPieces() int
	PieceComplete(piece int) bool
	Files() []File
}

// anacrolixTorrent exposes a *torrent.Torrent through Torrent.
type anacrolixTorrent struct {
	t *torrent.Torrent
}

// Wrap adapts t. Its info must be available (see WaitInfo).
func Wrap(t *torrent.Torrent) Torrent {
	return anacrolixTorrent{t: t}
}

func (a anacrolixTorrent) NumPieces() int {
	return a.t.NumPieces()
}

func (a anacrolixTorrent) PieceComplete(piece int) bool {
	return a.t.PieceState(piece).Complete
}

func (a anacrolixTorrent) Files() []File {
	files := a.t.Files()
	out := make([]File, len(files))
	for i, f := range files {
		out[i] = f
	}
	return out
}

// Snapshot copies the piece completion states of src into a fresh bitset and
// describes every file's inclusive piece range. File paths are joined to dataDir.
func Snapshot(src Torrent, dataDir string) models.TorrentProgress {
	n := src.NumPieces()
	if n < 0 {
		n = 0
	}
	bits := bitset.New(uint(n))
	for i := 0; i < n; i++ {
		if src.PieceComplete(i) {
			bits.Set(uint(i))
		}
	}

	files := src.Files()
	progress := make([]models.FileProgress, 0, len(files))
	for _, f := range files {
		begin, end := f.BeginPieceIndex(), f.EndPieceIndex()
		file := models.FileProgress{
			Path:       filepath.Join(dataDir, filepath.FromSlash(f.Path())),
			Name:       filepath.Base(f.DisplayPath()),
			StartPiece: begin,
			EndPiece:   end - 1,
			NumPieces:  max(end-begin, 0),
		}
		for i := begin; i < end && i < n; i++ {
			if bits.Test(uint(i)) {
				file.NumPiecesPresent++
			}
		}
		progress = append(progress, file)
	}

	return models.TorrentProgress{Files: progress, Bitfield: bits}
}
