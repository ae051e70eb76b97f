// Package util holds text helpers shared by the store and seed tooling.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	wordSeparatorRe   = regexp.MustCompile(`[\s_/]+`)
	nonSlugRe         = regexp.MustCompile(`[^a-z0-9-]`)
	multipleDashRe    = regexp.MustCompile(`-+`)
	validSlugRe       = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	collapseSpacingRe = regexp.MustCompile(`\s+`)
)

// stripMarks decomposes text and drops combining marks, so "Crème" becomes "Creme".
func stripMarks(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slugify converts a tag name to an ASCII slug:
//
//	"Slow Cooker"  → "slow-cooker"
//	"Crème brûlée" → "creme-brulee"
//	"Завтрак"      → "" (no ASCII letters; callers must supply a slug)
func Slugify(input string) string {
	s := strings.ToLower(stripMarks(strings.TrimSpace(input)))
	s = wordSeparatorRe.ReplaceAllString(s, "-")
	s = nonSlugRe.ReplaceAllString(s, "")
	s = multipleDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ValidSlug reports whether s is a usable tag slug.
func ValidSlug(s string) bool {
	return validSlugRe.MatchString(s)
}

// FoldForSearch produces the case- and accent-insensitive form stored next to
// ingredient names and used for prefix and substring matching.
func FoldForSearch(input string) string {
	s := strings.ToLower(stripMarks(strings.TrimSpace(input)))
	return collapseSpacingRe.ReplaceAllString(s, " ")
}
