package services

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// LanguageCodes defines the interface for mapping a language name to its ISO 639-1 code
type LanguageCodes interface {
	// Code returns the two-letter code for an English language name such as "German"
	Code(name string) (string, bool)
}

// DisplayLanguageCodes implements LanguageCodes using the CLDR English display names
type DisplayLanguageCodes struct {
	byName map[string]string
}

// nameAliases covers detector names that differ from the CLDR display name of the same language
var nameAliases = map[string]string{
	"mandarin": "zh",
	"farsi":    "fa",
	"punjabi":  "pa",
	"oriya":    "or",
}

// NewLanguageCodes builds the reverse lookup table from every valid two-letter base language
func NewLanguageCodes() LanguageCodes {
	namer := display.English.Languages()
	byName := make(map[string]string, len(nameAliases)+200)

	for a := 'a'; a <= 'z'; a++ {
		for b := 'a'; b <= 'z'; b++ {
			code := string([]rune{a, b})
			base, err := language.ParseBase(code)
			if err != nil || base.String() != code {
				continue
			}
			name := strings.ToLower(namer.Name(base))
			if name == "" {
				continue
			}
			if _, exists := byName[name]; !exists {
				byName[name] = code
			}
		}
	}
	for name, code := range nameAliases {
		if _, exists := byName[name]; !exists {
			byName[name] = code
		}
	}

	return &DisplayLanguageCodes{byName: byName}
}

// Code implements the LanguageCodes interface
func (c *DisplayLanguageCodes) Code(name string) (string, bool) {
	code, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}
