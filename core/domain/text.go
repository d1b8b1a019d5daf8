// ABOUTME: Text normalisation for values stored in history and exports
// ABOUTME: Keeps titles, links and keywords on one line so every tabular format reads them back unchanged

package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTextLen caps stored text in runes. Spreadsheet cells hold at most 32767
// characters.
const MaxTextLen = 2048

// CleanText makes s safe for CSV, SQLite and spreadsheet cells: invalid UTF-8,
// control characters and characters XML cannot carry become spaces, runs of
// whitespace collapse to one space, and the result is capped at MaxTextLen runes.
func CleanText(s string) string {
	s = strings.ToValidUTF8(s, " ")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == '\uFFFE' || r == '\uFFFF' {
			return ' '
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) > MaxTextLen {
		s = strings.TrimSpace(string([]rune(s)[:MaxTextLen]))
	}
	return s
}

// FoldKeyword is the case-folded form keywords are compared by.
func FoldKeyword(keyword string) string {
	return strings.ToLower(strings.ToUpper(keyword))
}
