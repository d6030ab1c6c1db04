package fetch

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Sanitize NFC-normalizes body and removes control characters other than
// tab, newline and carriage return. Bodies that are not valid UTF-8 are
// returned unchanged so that XML declaring another charset still decodes.
func Sanitize(body []byte) []byte {
	if !utf8.Valid(body) {
		return body
	}
	t := transform.Chain(runes.Remove(runes.Predicate(isUnprintable)), norm.NFC)
	out, _, err := transform.Bytes(t, body)
	if err != nil {
		return body
	}
	return out
}

func isUnprintable(r rune) bool {
	switch r {
	case '\t', '\n', '\r':
		return false
	}
	return unicode.IsControl(r)
}
