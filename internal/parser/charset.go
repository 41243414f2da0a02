package parser

import (
	"io"

	"golang.org/x/net/html/charset"
)

// NewUTF8Reader decodes a subtitle body to UTF-8. Files bundled with torrents
// are often in a legacy code page such as Windows-1252.
//
// The encoding comes from a byte order mark first, then a charset parameter in
// contentType, and otherwise from sniffing the leading bytes. UTF-8 input is
// returned unchanged.
func NewUTF8Reader(body io.Reader, contentType string) (io.Reader, error) {
	return charset.NewReader(body, contentType)
}
