package subtitles

import (
	"strconv"

	"github.com/juanflix/nowplaying/internal/models"
)

// relabel gives every track a unique label: the first track of a language is
// labelled with the bare language name, later ones get "<language> <n>" where
// n counts occurrences of that language so far. Running it twice is a no-op.
func relabel(tracks []models.SubtitleTrack) {
	counts := make(map[string]int, len(tracks))
	for i := range tracks {
		lang := tracks[i].Language
		counts[lang]++
		if n := counts[lang]; n > 1 {
			tracks[i].Label = lang + " " + strconv.Itoa(n)
		} else {
			tracks[i].Label = lang
		}
	}
}
