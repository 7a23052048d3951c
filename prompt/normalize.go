package prompt

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize prepares raw text for the shape matcher and the dimension
// extractor. It applies NFKC normalization (which also folds full-width
// digits and separators common in CJK input to their ASCII forms), folds
// Latin letters to lowercase (CJK characters carry no case and pass
// through), replaces decorative punctuation with spaces and collapses
// whitespace runs.
//
// Normalize is idempotent and has no failure path: a whitespace-only
// input normalizes to the empty string.
func Normalize(raw string) string {
	s := strings.ToLower(norm.NFKC.String(raw))

	var b strings.Builder
	b.Grow(len(s))
	space := true // swallow leading spaces
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !space {
				b.WriteByte(' ')
				space = true
			}
		case keepRune(r):
			b.WriteRune(r)
			space = false
		default:
			// decorative punctuation separates tokens, it never glues them
			if !space {
				b.WriteByte(' ')
				space = true
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// keepRune reports whether a rune carries shape or numeric meaning.
// Letters cover both Latin keywords and CJK dimension words; the listed
// punctuation appears inside numbers and dimension separators.
func keepRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '.', ',', '-', '*', '×':
		return true
	}
	return false
}
