// Package search implements the case-insensitive substring matching used by
// every directory listing.
package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns s case-folded for comparison. A Caser is stateful, so one is
// built per call.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Matches reports whether query occurs in any of fields, ignoring case and
// surrounding whitespace. An empty query matches everything.
func Matches(query string, fields ...string) bool {
	q := Fold(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if f != "" && strings.Contains(Fold(f), q) {
			return true
		}
	}
	return false
}

// Equal compares two references case-insensitively after trimming.
func Equal(a, b string) bool {
	return Fold(strings.TrimSpace(a)) == Fold(strings.TrimSpace(b))
}
