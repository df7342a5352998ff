package models

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var reNonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// UrlFriendly turns a display name into a lowercase ascii identifier for
// use in URLs, e.g. "Koš" becomes "kos". Diacritics are stripped, anything
// else non-alphanumeric collapses into dashes.
func UrlFriendly(name string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(stripMarks, name)
	if err != nil {
		ascii = name
	}

	slug := strings.ToLower(ascii)
	slug = reNonSlug.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
