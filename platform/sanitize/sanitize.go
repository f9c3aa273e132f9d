// Package sanitize cleans user-provided text before it is stored, echoed to
// other clients or sent to an upstream provider.
package sanitize

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// StripHTML removes all HTML tags from a string and decodes entities,
// making it safe for text-only display. Encoded tags are removed too.
func StripHTML(s string) string {
	return textOnly(textOnly(s))
}

func textOnly(s string) string {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(z.Text())
		}
	}
}

// Text strips HTML and surrounding whitespace. Use for labels such as a
// building name or field name.
func Text(s string) string {
	return strings.TrimSpace(singleLine(StripHTML(s)))
}

// SearchInput cleans text typed into a location field. Control characters
// become spaces and HTML is removed, but leading and trailing spaces are
// kept: the text must round-trip to the input unchanged while the user is
// still typing.
func SearchInput(s string) string {
	return singleLine(StripHTML(s))
}

func singleLine(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}
