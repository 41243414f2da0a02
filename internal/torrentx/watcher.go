package torrentx

import (
	"context"
	"time"

	"github.com/juanflix/nowplaying/internal/config"
	"github.com/juanflix/nowplaying/internal/models"
)

// DefaultPollInterval is used when the watcher has no interval configured.
const DefaultPollInterval = time.Second

// ProgressSink receives progress snapshots.
type ProgressSink interface {
	OnProgress(ctx context.Context, snapshot models.TorrentProgress) error
}

// Watcher polls a torrent and forwards a snapshot to a sink on every tick.
type Watcher struct {
	src      Torrent
	dataDir  string
	interval time.Duration
	sink     ProgressSink
}

// NewWatcher creates a watcher for src. Paths in snapshots are rooted at dataDir.
func NewWatcher(src Torrent, dataDir string, interval time.Duration, sink ProgressSink) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{src: src, dataDir: dataDir, interval: interval, sink: sink}
}

// Run delivers one snapshot immediately and then one per interval until ctx is
// cancelled. Sink errors are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	logger := config.GetLogger()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.sink.OnProgress(ctx, Snapshot(w.src, w.dataDir)); err != nil {
			logger.Warn().Err(err).Msg("Progress update failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
