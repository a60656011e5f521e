package resolve

import (
	"regexp"
	"strings"
	"unicode"
)

// normalizeDashes replaces em and en dashes with plain hyphens before any
// query is built.
func normalizeDashes(s string) string {
	return strings.NewReplacer("—", "-", "–", "-").Replace(s)
}

// sparseWhitespace reports whether the text has abnormally few spaces:
// fewer than len/ratio. OCR pipelines sometimes drop word boundaries
// entirely.
func sparseWhitespace(s string, ratio int) bool {
	if ratio <= 0 || len(s) == 0 {
		return false
	}
	return strings.Count(s, " ") < len(s)/ratio
}

// Respace recovers word boundaries lost to OCR concatenation by inserting
// a space before an uppercase letter that follows another letter or a
// period. "SuquetPM.Sur" becomes "Suquet P M. Sur".
func Respace(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/4)

	var prev rune
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) && (unicode.IsLetter(prev) || prev == '.') {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

var (
	authorTokenRe = regexp.MustCompile(`\p{Lu}\p{L}+`)
	yearTokenRe   = regexp.MustCompile(`(?:^|[^0-9])((?:19|20)\d{2})(?:[^0-9]|$)`)
)

// minimalQueryParts extracts the leading capitalized author token and a
// year token for the terse retry query. Both must be present.
func minimalQueryParts(text string) (author, year string, ok bool) {
	author = authorTokenRe.FindString(text)
	if author == "" {
		return "", "", false
	}
	m := yearTokenRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return author, m[1], true
}
