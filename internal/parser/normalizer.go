package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/asticode/go-astisub"

	"github.com/juanflix/nowplaying/internal/config"
)

// ErrNoCues is returned when a subtitle file parses but contains no cues.
var ErrNoCues = errors.New("subtitle file contains no cues")

// Normalizer converts a subtitle file in any supported format to WebVTT.
type Normalizer interface {
	// Normalize reads the subtitle named name from body and returns its WebVTT encoding.
	Normalize(name string, body io.Reader) ([]byte, error)
}

// VTTNormalizer implements Normalizer on top of go-astisub.
type VTTNormalizer struct{}

// NewVTTNormalizer creates a new VTTNormalizer
func NewVTTNormalizer() *VTTNormalizer {
	return &VTTNormalizer{}
}

// Normalize implements the Normalizer interface
func (n *VTTNormalizer) Normalize(name string, body io.Reader) ([]byte, error) {
	logger := config.GetLogger()

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("empty subtitle file: %w", ErrNoCues)
	}

	utf8Body, err := NewUTF8Reader(bytes.NewReader(raw), "text/plain")
	if err != nil {
		return nil, fmt.Errorf("failed to detect charset: %w", err)
	}

	var subs *astisub.Subtitles
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".srt":
		subs, err = astisub.ReadFromSRT(utf8Body)
	case ".vtt":
		subs, err = astisub.ReadFromWebVTT(utf8Body)
	case ".ass", ".ssa":
		subs, err = astisub.ReadFromSSA(utf8Body)
	default:
		return nil, fmt.Errorf("unsupported subtitle format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s subtitles: %w", ext, err)
	}
	if subs == nil || len(subs.Items) == 0 {
		return nil, ErrNoCues
	}

	var buf bytes.Buffer
	if err := subs.WriteToWebVTT(&buf); err != nil {
		return nil, fmt.Errorf("failed to write WebVTT: %w", err)
	}

	logger.Debug().
		Str("name", name).
		Str("format", ext).
		Int("cues", len(subs.Items)).
		Int("size", buf.Len()).
		Msg("Normalized subtitle file to WebVTT")

	return buf.Bytes(), nil
}
