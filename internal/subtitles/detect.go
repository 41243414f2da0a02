package subtitles

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"github.com/juanflix/nowplaying/internal/config"
	"github.com/juanflix/nowplaying/internal/models"
)

func normalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		exts = config.DefaultSubtitleExtensions
	}
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

// IsSubtitle reports whether name has one of the configured subtitle extensions, ignoring case.
func (m *Manager) IsSubtitle(name string) bool {
	return slices.Contains(m.extensions, strings.ToLower(filepath.Ext(name)))
}

// Extensions returns the subtitle extensions, e.g. for an open-file dialog filter.
func (m *Manager) Extensions() []string {
	return slices.Clone(m.extensions)
}

// DetectFromFileCompletion adds every fully downloaded subtitle file of the
// torrent without auto-selecting. It is meant to run on each progress update;
// files already in the collection are skipped.
func (m *Manager) DetectFromFileCompletion(ctx context.Context, files []models.FileProgress) (BatchResult, error) {
	var paths []string
	for _, file := range files {
		name, path := file.Name, file.Path
		if name == "" {
			name = path
		}
		if path == "" {
			path = name
		}
		if !file.Complete() || !m.IsSubtitle(name) {
			continue
		}
		if m.contains(path) || slices.Contains(paths, path) {
			continue
		}
		paths = append(paths, path)
	}

	if len(paths) == 0 {
		return BatchResult{Selected: m.selectedIndex()}, nil
	}

	logger := config.GetLogger()
	logger.Info().Strs("paths", paths).Msg("Found downloaded subtitle files")
	return m.AddTracks(ctx, paths, false)
}
