// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FallbackSlug is returned when nothing slug-worthy remains.
const FallbackSlug = "post"

// Matches every run of characters outside [a-z0-9].
var nonAlphanumericRunRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a post title to a filename-safe slug.
//
// Normalization rules:
//  1. Decompose and drop combining marks, then lowercase
//  2. Replace every run of non-alphanumeric characters with one dash
//  3. Trim leading/trailing dashes
//  4. Fall back to "post" when empty
//
// Examples:
//
//	"Hello, World!"  → "hello-world"
//	"Café Notes"     → "cafe-notes"
//	"don't panic"    → "don-t-panic"
//	"🐉"             → "post"
func Slugify(title string) string {
	s := strings.ToLower(stripMarks(title))
	s = nonAlphanumericRunRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return FallbackSlug
	}
	return s
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
