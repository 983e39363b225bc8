// Package textnorm provides the accent-stripping normalization shared by
// catalogue preparation and title matching.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s and removes diacritical marks, so that
// "Quejas de Bandoneón" and "quejas de bandoneon" compare equal.
// It is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	// Lowercase on both sides of the decomposition: some lowercase mappings
	// introduce combining marks (İ), and NFKD can yield uppercase letters (ℌ).
	s = strings.ToLower(s)
	s = StripAccents(s)
	return strings.ToLower(s)
}

// StripAccents decomposes s (NFKD) and drops the combining marks,
// keeping the original case.
func StripAccents(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		// transform.String only fails on invalid transformer state; fall back
		// to the input rather than losing the title.
		return s
	}
	return out
}
