package services

import (
	"context"

	"github.com/juanflix/nowplaying/internal/models"
)

// SubtitleLoader defines the interface for turning a subtitle file on disk into a displayable track
type SubtitleLoader interface {
	// Load reads the file at path, converts it to WebVTT and detects its language.
	// Errors are returned as *apperrors.ErrSubtitleLoad.
	Load(ctx context.Context, path string) (*models.SubtitleTrack, error)
}
