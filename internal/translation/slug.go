package translation

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonSlugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases text, folds accents and joins the remaining
// alphanumeric runs with single hyphens.
func Slugify(text string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), text)
	if err != nil {
		folded = text
	}
	slug := nonSlugPattern.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(slug, "-")
}
