package models

import (
	"path/filepath"
	"slices"
	"strings"
)

// MediaType represents the kind of media playing in a session
type MediaType int

const (
	MediaTypeUnknown MediaType = iota
	MediaTypeVideo
	MediaTypeAudio
	MediaTypeOther
)

// String returns the string representation of the media type
func (m MediaType) String() string {
	switch m {
	case MediaTypeVideo:
		return "video"
	case MediaTypeAudio:
		return "audio"
	case MediaTypeOther:
		return "other"
	default:
		return "unknown"
	}
}

// ParseMediaType converts a media type string to MediaType enum
func ParseMediaType(s string) MediaType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video":
		return MediaTypeVideo
	case "audio":
		return MediaTypeAudio
	case "other":
		return MediaTypeOther
	default:
		return MediaTypeUnknown
	}
}

// MarshalJSON implements json.Marshaler interface
func (m MediaType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (m *MediaType) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	*m = ParseMediaType(str)
	return nil
}

var (
	videoExtensions = []string{
		".mkv", ".mp4", ".avi", ".mov", ".wmv", ".flv", ".webm",
		".m4v", ".mpg", ".mpeg", ".m2ts", ".ts", ".vob", ".ogv",
	}
	audioExtensions = []string{
		".mp3", ".flac", ".m4a", ".aac", ".ogg", ".oga", ".opus", ".wav", ".wma",
	}
)

// MediaTypeOf classifies a file by its extension
func MediaTypeOf(filename string) MediaType {
	ext := strings.ToLower(filepath.Ext(filename))
	if slices.Contains(videoExtensions, ext) {
		return MediaTypeVideo
	}
	if slices.Contains(audioExtensions, ext) {
		return MediaTypeAudio
	}
	if ext == "" {
		return MediaTypeUnknown
	}
	return MediaTypeOther
}
