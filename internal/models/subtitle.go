package models

import "encoding/base64"

// NoSelection is the selected index of a collection with no active subtitle track
const NoSelection = -1

// SubtitleTrack represents one loaded subtitle stream of a playback session
type SubtitleTrack struct {
	SourcePath   string `json:"sourcePath"`   // Absolute path of the subtitle file, unique within a collection
	Language     string `json:"language"`     // Detected language name (e.g., "English") or "subtitle"
	LanguageCode string `json:"languageCode"` // ISO 639-1 code of Language, empty when unknown
	Label        string `json:"label"`        // Display label, unique within a collection after relabeling
	Content      []byte `json:"-"`            // WebVTT payload ready for display
	Selected     bool   `json:"selected"`     // Derived from the collection's selected index
}

// DataURL returns the track content as a data URL suitable for a <track> element
func (t SubtitleTrack) DataURL() string {
	return "data:text/vtt;base64," + base64.StdEncoding.EncodeToString(t.Content)
}

// SubtitleCollection represents the ordered subtitle tracks of a playback session
type SubtitleCollection struct {
	Tracks        []SubtitleTrack `json:"tracks"`
	SelectedIndex int             `json:"selectedIndex"`
	MenuVisible   bool            `json:"menuVisible"`
}

// NewSubtitleCollection returns an empty collection with nothing selected
func NewSubtitleCollection() SubtitleCollection {
	return SubtitleCollection{SelectedIndex: NoSelection}
}

// IndexOf returns the index of the track loaded from sourcePath, or -1
func (c *SubtitleCollection) IndexOf(sourcePath string) int {
	for i := range c.Tracks {
		if c.Tracks[i].SourcePath == sourcePath {
			return i
		}
	}
	return -1
}

// SelectedTrack returns the active track, if any
func (c *SubtitleCollection) SelectedTrack() (SubtitleTrack, bool) {
	if c.SelectedIndex < 0 || c.SelectedIndex >= len(c.Tracks) {
		return SubtitleTrack{}, false
	}
	return c.Tracks[c.SelectedIndex], true
}

// Clone returns a deep copy with the Selected flags derived from SelectedIndex
func (c *SubtitleCollection) Clone() SubtitleCollection {
	out := SubtitleCollection{
		Tracks:        make([]SubtitleTrack, len(c.Tracks)),
		SelectedIndex: c.SelectedIndex,
		MenuVisible:   c.MenuVisible,
	}
	for i, track := range c.Tracks {
		track.Content = append([]byte(nil), track.Content...)
		track.Selected = i == c.SelectedIndex
		out.Tracks[i] = track
	}
	return out
}
