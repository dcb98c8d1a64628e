// Package textutil provides text folding helpers shared by header resolution
// and keyword matching. Rank-tracking exports mix Spanish and English headers
// with inconsistent accents, so all matching happens on folded text.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// StripDiacritics removes combining marks, so "Posición" folds to "Posicion".
func StripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Fold lowercases, trims and strips diacritics. This is the canonical form
// used for accent-insensitive comparisons.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(StripDiacritics(s)))
}

// CollapseWhitespace replaces runs of whitespace with a single space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
