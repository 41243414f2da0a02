package services

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// SystemLanguage returns the primary language subtag of the host locale (e.g. "fr" for "fr_FR.UTF-8").
// A non-empty override takes precedence over LC_ALL, LC_MESSAGES and LANG, in that order.
// It returns an empty string when no locale can be determined.
func SystemLanguage(override string) string {
	for _, candidate := range []string{override, os.Getenv("LC_ALL"), os.Getenv("LC_MESSAGES"), os.Getenv("LANG")} {
		if code := PrimaryLanguage(candidate); code != "" {
			return code
		}
	}
	return ""
}

// PrimaryLanguage extracts the lower-case primary language subtag from a POSIX locale or BCP 47 tag.
func PrimaryLanguage(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" || locale == "C" || locale == "POSIX" {
		return ""
	}

	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return ""
	}
	base, confidence := tag.Base()
	if confidence == language.No || base.String() == "und" {
		return ""
	}
	return strings.ToLower(base.String())
}
