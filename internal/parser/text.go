package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// timingLine matches cue timing lines such as "00:00:01.000 --> 00:00:02.500 align:start".
var timingLine = regexp.MustCompile(`(?m)^.*-->.*$`)

// DetectionText returns the spoken text of a WebVTT document: timing lines are
// removed and inline markup (<i>, <b>, <font>, voice spans) is reduced to its text.
func DetectionText(vtt []byte) string {
	text := timingLine.ReplaceAllString(string(vtt), "")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}
	return doc.Text()
}
