// Package player holds the state of the current playback session.
package player

import (
	"context"
	"sync"

	"github.com/juanflix/nowplaying/internal/apperrors"
	"github.com/juanflix/nowplaying/internal/config"
	"github.com/juanflix/nowplaying/internal/metrics"
	"github.com/juanflix/nowplaying/internal/models"
	"github.com/juanflix/nowplaying/internal/progress"
	"github.com/juanflix/nowplaying/internal/services"
	"github.com/juanflix/nowplaying/internal/subtitles"
)

// LoadingBar is what the player draws while the playing file downloads.
type LoadingBar struct {
	Percent   int                       `json:"percent"`
	Intervals []models.ProgressInterval `json:"intervals"`
	Segments  []models.Segment          `json:"segments"`
}

// Session is the playback state of one torrent: what is playing, the latest
// progress report and the subtitle tracks. It is safe for concurrent use.
type Session struct {
	mu        sync.RWMutex
	fileIndex int
	mediaType models.MediaType
	snapshot  models.TorrentProgress

	subtitles *subtitles.Manager
}

// NewSession creates an idle session whose subtitle manager loads through loader.
func NewSession(loader services.SubtitleLoader, opts subtitles.Options) *Session {
	s := &Session{fileIndex: -1}
	s.subtitles = subtitles.NewManager(loader, s, opts)
	return s
}

// Play switches to the file at fileIndex of the torrent. The media type comes
// from the file name and the subtitle collection starts empty.
func (s *Session) Play(fileIndex int, name string) {
	s.mu.Lock()
	s.fileIndex = fileIndex
	s.mediaType = models.MediaTypeOf(name)
	mediaType := s.mediaType
	s.mu.Unlock()

	s.subtitles.Reset()

	logger := config.GetLogger()
	logger.Info().Int("file_index", fileIndex).Str("name", name).Str("media_type", mediaType.String()).Msg("Playing file")
}

// MediaType implements subtitles.MediaSource.
func (s *Session) MediaType() models.MediaType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mediaType
}

// FileIndex returns the index of the playing file, or -1 when idle.
func (s *Session) FileIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fileIndex
}

// Subtitles returns the session's subtitle manager.
func (s *Session) Subtitles() *subtitles.Manager {
	return s.subtitles
}

// OnProgress stores a progress report and adds any subtitle file it shows as
// fully downloaded. The snapshot must not be modified afterwards.
func (s *Session) OnProgress(ctx context.Context, snapshot models.TorrentProgress) error {
	s.mu.Lock()
	s.snapshot = snapshot
	fileIndex := s.fileIndex
	s.mu.Unlock()

	metrics.ProgressSnapshotsTotal.Inc()
	if fileIndex >= 0 && fileIndex < len(snapshot.Files) {
		metrics.PlayingFilePercent.Set(float64(progress.Percent(snapshot.Files[fileIndex])))
	}

	_, err := s.subtitles.DetectFromFileCompletion(ctx, snapshot.Files)
	return err
}

// Progress returns the present-piece intervals of the playing file.
func (s *Session) Progress() ([]models.ProgressInterval, error) {
	snapshot, fileIndex := s.current()
	if fileIndex < 0 {
		return nil, apperrors.NewFileNotFoundError(fileIndex)
	}
	return progress.CompressFile(snapshot, fileIndex)
}

// LoadingBar returns the download percentage and bar segments of the playing file.
func (s *Session) LoadingBar() (LoadingBar, error) {
	snapshot, fileIndex := s.current()
	if fileIndex < 0 {
		return LoadingBar{}, apperrors.NewFileNotFoundError(fileIndex)
	}
	parts, err := progress.CompressFile(snapshot, fileIndex)
	if err != nil {
		return LoadingBar{}, err
	}

	file := snapshot.Files[fileIndex]
	return LoadingBar{
		Percent:   progress.Percent(file),
		Intervals: parts,
		Segments:  progress.Segments(parts, file.NumPieces),
	}, nil
}

func (s *Session) current() (models.TorrentProgress, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.fileIndex
}
