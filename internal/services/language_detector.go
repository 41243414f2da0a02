package services

import (
	"github.com/abadojack/whatlanggo"
)

// LanguageDetector defines the interface for guessing the natural language of a text
type LanguageDetector interface {
	// Detect returns the English name of the most likely language, or false when nothing was detected
	Detect(text string) (string, bool)
}

// WhatlangDetector implements LanguageDetector with trigram statistics from whatlanggo
type WhatlangDetector struct{}

// NewLanguageDetector creates a new trigram-based language detector
func NewLanguageDetector() LanguageDetector {
	return &WhatlangDetector{}
}

// Detect implements the LanguageDetector interface
func (d *WhatlangDetector) Detect(text string) (string, bool) {
	info := whatlanggo.Detect(text)
	name := info.Lang.String()
	if name == "" {
		return "", false
	}
	return name, true
}
