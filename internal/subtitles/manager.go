// Package subtitles owns the subtitle tracks of a playback session: it loads
// batches of files concurrently, merges them without duplicates, keeps labels
// unique and handles selection.
package subtitles

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/juanflix/nowplaying/internal/apperrors"
	"github.com/juanflix/nowplaying/internal/config"
	"github.com/juanflix/nowplaying/internal/metrics"
	"github.com/juanflix/nowplaying/internal/models"
	"github.com/juanflix/nowplaying/internal/services"
)

// DefaultConcurrency bounds parallel loads within one batch.
const DefaultConcurrency = 4

// MediaSource reports what is currently playing.
type MediaSource interface {
	MediaType() models.MediaType
}

// Options configures a Manager.
type Options struct {
	// Locale is the primary language subtag preferred by auto-selection. Empty disables locale matching.
	Locale string
	// Extensions lists the subtitle file extensions, dot included. Defaults to config.DefaultSubtitleExtensions.
	Extensions []string
	// Concurrency bounds parallel loads within one batch.
	Concurrency int
}

// BatchResult summarizes one AddTracks call.
type BatchResult struct {
	Added      int // new tracks appended to the collection
	Duplicates int // loaded paths already in the collection
	Failed     int // paths that could not be loaded
	Selected   int // selected index after the merge
	Discarded  bool // the collection was reset while loading, nothing was merged
}

// Manager holds the subtitle collection of one playback session.
// All methods are safe for concurrent use.
type Manager struct {
	loader      services.SubtitleLoader
	media       MediaSource
	locale      string
	extensions  []string
	concurrency int

	mu         sync.Mutex
	collection models.SubtitleCollection
	// generation increments on Reset. Batches started under an older
	// generation are dropped instead of merged.
	generation uint64
}

// NewManager creates a manager with an empty collection.
func NewManager(loader services.SubtitleLoader, media MediaSource, opts Options) *Manager {
	m := &Manager{
		loader:      loader,
		media:       media,
		locale:      strings.ToLower(opts.Locale),
		extensions:  normalizeExtensions(opts.Extensions),
		concurrency: opts.Concurrency,
		collection:  models.NewSubtitleCollection(),
	}
	if m.concurrency <= 0 {
		m.concurrency = DefaultConcurrency
	}
	return m
}

// AddTracks loads every path concurrently and merges the successful loads in
// input order once all of them have settled. A path already in the collection
// keeps its existing track and index.
//
// With autoSelect set, the first loaded track of the batch is selected unless a
// later one matches the locale, in which case the last match wins.
//
// Loading is best effort: failed paths are reported as *apperrors.ErrSubtitleLoad
// joined into the returned error while the rest are still merged. Nothing happens
// unless a video is playing. A batch that is still loading when Reset is
// called is discarded and reported with Discarded set.
func (m *Manager) AddTracks(ctx context.Context, paths []string, autoSelect bool) (BatchResult, error) {
	logger := config.GetLogger()

	if m.media.MediaType() != models.MediaTypeVideo {
		logger.Debug().Int("paths", len(paths)).Str("media_type", m.media.MediaType().String()).Msg("Ignoring subtitles for non-video media")
		return BatchResult{Selected: m.selectedIndex()}, nil
	}
	if len(paths) == 0 {
		return BatchResult{Selected: m.selectedIndex()}, nil
	}

	start := time.Now()
	defer func() {
		metrics.SubtitleBatchDuration.Observe(time.Since(start).Seconds())
	}()

	m.mu.Lock()
	generation := m.generation
	m.mu.Unlock()

	tracks, errs := m.loadAll(ctx, paths)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generation != generation {
		logger.Info().Int("paths", len(paths)).Msg("Discarding subtitle batch loaded for a previous file")
		return BatchResult{Selected: m.collection.SelectedIndex, Discarded: true}, errors.Join(errs...)
	}

	result := BatchResult{}
	candidate := models.NoSelection
	reason := ""
	for i, track := range tracks {
		if track == nil {
			result.Failed++
			metrics.SubtitleLoadsTotal.WithLabelValues("error").Inc()
			logger.Warn().Err(errs[i]).Str("path", paths[i]).Msg("Failed to load subtitle file")
			continue
		}

		idx := m.collection.IndexOf(track.SourcePath)
		if idx >= 0 {
			result.Duplicates++
			metrics.SubtitleLoadsTotal.WithLabelValues("duplicate").Inc()
		} else {
			m.collection.Tracks = append(m.collection.Tracks, *track)
			idx = len(m.collection.Tracks) - 1
			result.Added++
			metrics.SubtitleLoadsTotal.WithLabelValues("success").Inc()
		}

		if !autoSelect {
			continue
		}
		if candidate == models.NoSelection {
			candidate, reason = idx, "first"
		}
		if m.locale != "" && strings.EqualFold(track.LanguageCode, m.locale) {
			candidate, reason = idx, "locale"
		}
	}

	if candidate != models.NoSelection {
		m.collection.SelectedIndex = candidate
		metrics.SubtitleAutoSelectionsTotal.WithLabelValues(reason).Inc()
		logger.Debug().Int("index", candidate).Str("reason", reason).Msg("Auto-selected subtitle track")
	}

	relabel(m.collection.Tracks)
	metrics.SubtitleTracks.Set(float64(len(m.collection.Tracks)))
	result.Selected = m.collection.SelectedIndex

	logger.Info().
		Int("added", result.Added).
		Int("duplicates", result.Duplicates).
		Int("failed", result.Failed).
		Int("selected", result.Selected).
		Msg("Subtitle batch merged")

	return result, errors.Join(errs...)
}

// loadAll runs one load per path and returns the results indexed like paths.
func (m *Manager) loadAll(ctx context.Context, paths []string) ([]*models.SubtitleTrack, []error) {
	tracks := make([]*models.SubtitleTrack, len(paths))
	errs := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(m.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = apperrors.NewSubtitleLoadError(path, err)
				return nil
			}
			track, err := m.loader.Load(ctx, path)
			if err != nil {
				errs[i] = err
				return nil
			}
			tracks[i] = track
			return nil
		})
	}
	_ = g.Wait()

	return tracks, errs
}

// SelectTrack makes the track at index active. NoSelection (-1) turns subtitles off.
// Any other index outside the collection returns *apperrors.ErrIndexOutOfRange
// and leaves the selection unchanged.
func (m *Manager) SelectTrack(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < models.NoSelection || index >= len(m.collection.Tracks) {
		return apperrors.NewIndexOutOfRangeError(index, len(m.collection.Tracks))
	}
	m.collection.SelectedIndex = index
	return nil
}

// ToggleMenu flips the visibility of the track menu and returns the new state.
func (m *Manager) ToggleMenu() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.collection.MenuVisible = !m.collection.MenuVisible
	return m.collection.MenuVisible
}

// Snapshot returns a copy of the collection safe to hand to the UI.
func (m *Manager) Snapshot() models.SubtitleCollection {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.collection.Clone()
}

// Reset drops every track, used when a new file starts playing. Batches
// still loading for the previous file will not be merged.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	m.collection = models.NewSubtitleCollection()
	metrics.SubtitleTracks.Set(0)
}

func (m *Manager) selectedIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.collection.SelectedIndex
}

func (m *Manager) contains(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.collection.IndexOf(path) >= 0
}
