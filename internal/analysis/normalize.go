package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	// Boilerplate lines stripped before whitespace collapsing, each
	// removed through end of line.
	boilerplateRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)last updated:[^\n]*\n?`),
		regexp.MustCompile(`(?i)effective date:[^\n]*\n?`),
		regexp.MustCompile(`(?i)print this page[^\n]*\n?`),
	}
)

// Normalize prepares raw document text for analysis: strips boilerplate
// markers, collapses whitespace runs to a single space, and caps the
// result at maxChars. It never fails; empty input yields empty output.
func Normalize(raw string, maxChars int) string {
	text := raw
	for _, re := range boilerplateRes {
		text = re.ReplaceAllString(text, "")
	}

	text = whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")

	if utf8.RuneCountInString(text) > maxChars {
		text = string([]rune(text)[:maxChars])
	}
	return text
}
