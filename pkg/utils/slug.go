package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugDrop     = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[-\s]+`)

	// Decomposes accented letters and drops whatever is left outside ASCII.
	asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
)

// Slugify turns a save name into a lowercase ASCII token made of letters,
// digits, underscores and single hyphens, e.g. "Gloomhaven: Jaws of the
// Lion" becomes "gloomhaven-jaws-of-the-lion".
func Slugify(value string) string {
	folded, _, err := transform.String(asciiFold, value)
	if err != nil {
		folded = value
	}
	folded = slugDrop.ReplaceAllString(strings.ToLower(folded), "")
	return strings.Trim(slugCollapse.ReplaceAllString(folded, "-"), "-_")
}
