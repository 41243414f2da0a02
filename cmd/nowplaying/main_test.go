package main

import (
	"testing"

	"github.com/juanflix/nowplaying/internal/models"
)

func TestLargestVideo(t *testing.T) {
	files := []models.FileProgress{
		{Name: "sample.mkv", NumPieces: 3},
		{Name: "ep.en.srt", NumPieces: 50},
		{Name: "ep.mkv", NumPieces: 40},
		{Name: "extras.mp4", NumPieces: 12},
	}
	if got := largestVideo(files); got != 2 {
		t.Errorf("largestVideo() = %d, want 2", got)
	}
	if got := largestVideo([]models.FileProgress{{Name: "notes.txt"}}); got != 0 {
		t.Errorf("largestVideo() without videos = %d, want 0", got)
	}
}
