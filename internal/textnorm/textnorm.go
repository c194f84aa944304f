// Package textnorm folds Vietnamese text to plain ASCII for slugs and keyword search.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s, decomposes it to NFD and drops the combining
// diacritical marks (U+0300..U+036F). đ is mapped to d explicitly since it
// has no decomposition.
func Fold(s string) string {
	s = norm.NFD.String(strings.ToLower(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 0x0300 && r <= 0x036F:
			continue
		case r == 'đ' || r == 'Đ':
			b.WriteRune('d')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Keyword folds a user supplied search term.
func Keyword(s string) string {
	return strings.TrimSpace(Fold(s))
}

// Compact folds s and removes every whitespace rune.
func Compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, Fold(s))
}

// Slug derives the URL slug of a genre name: folded, reduced to [a-z0-9],
// with whitespace and hyphen runs collapsed to one hyphen and no hyphen at
// either end.
func Slug(s string) string {
	folded := Fold(s)

	var b strings.Builder
	b.Grow(len(folded))
	sep := false
	for _, r := range folded {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			sep = true
		}
	}
	return b.String()
}
