package label

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Latin ligatures that NFD does not decompose.
var ligatures = strings.NewReplacer(
	"œ", "oe", "Œ", "oe",
	"æ", "ae", "Æ", "ae",
	"ß", "ss",
)

// Slugify converts a raw label into a lowercase ASCII slug: accents are
// stripped, runs of whitespace and underscores become single hyphens, and
// every other non-alphanumeric character is dropped.
func Slugify(raw string) string {
	decomposed := norm.NFD.String(ligatures.Replace(raw))

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// Combining marks left over from NFD decomposition.
		case unicode.IsSpace(r), r == '_', r == '-':
			b.WriteByte('-')
		default:
			r = unicode.ToLower(r)
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
	}

	slug := b.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}

// Normalize slugifies raw and resolves the slug through the synonym table.
// When no entry matches, the slug is returned unchanged. Normalize is
// idempotent: a canonical slug resolves to itself.
func Normalize(raw string, table Table) string {
	slug := Slugify(raw)
	if canonical, ok := table.Resolve(slug); ok {
		return canonical
	}
	return slug
}
