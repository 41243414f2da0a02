package subtitles

import (
	"testing"

	"github.com/juanflix/nowplaying/internal/models"
)

func TestRelabel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		languages []string
		want      []string
	}{
		{"unique languages", []string{"English", "French"}, []string{"English", "French"}},
		{"repeated language", []string{"English", "French", "English"}, []string{"English", "French", "English 2"}},
		{"three of a kind", []string{"German", "German", "German"}, []string{"German", "German 2", "German 3"}},
		{"undetected tracks", []string{"subtitle", "English", "subtitle"}, []string{"subtitle", "English", "subtitle 2"}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tracks := make([]models.SubtitleTrack, len(tt.languages))
			for i, lang := range tt.languages {
				tracks[i] = models.SubtitleTrack{Language: lang, Label: "stale"}
			}

			relabel(tracks)
			got := make([]string, len(tracks))
			for i := range tracks {
				got[i] = tracks[i].Label
			}
			if !equalStrings(got, tt.want) {
				t.Errorf("labels = %v, want %v", got, tt.want)
			}

			relabel(tracks)
			for i := range tracks {
				if tracks[i].Label != got[i] {
					t.Errorf("second relabel changed %q to %q", got[i], tracks[i].Label)
				}
			}
		})
	}
}
