// Package match decides whether a candidate search result is the same
// work as a source reference entry.
package match

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/bibex/bibex/internal/reference"
)

// Verdict is the accept/reject outcome for one candidate, carrying the
// rejection reason for diagnostics.
type Verdict struct {
	Accept bool   `json:"accept"`
	Reason string `json:"reason,omitempty"`
}

// Thresholds are the relevance-score gates. A score above Score can
// substitute for a failed author check; ScoreWithDOI applies instead when
// an identifier token was already found in the source text.
type Thresholds struct {
	Score        float64
	ScoreWithDOI float64
}

// DefaultThresholds returns the empirically chosen score gates. They have
// no documented derivation and are kept tunable for re-validation.
func DefaultThresholds() Thresholds {
	return Thresholds{Score: 50, ScoreWithDOI: 30}
}

// yearRe matches a 4-digit year token without bleeding into adjacent
// digits (page ranges, identifiers).
var yearRe = regexp.MustCompile(`(?:^|[^0-9])((?:19|20)\d{2})(?:[^0-9]|$)`)

// minTitleWordLen is the cutoff below which title words are too common to
// carry overlap signal.
const minTitleWordLen = 4

// Validate scores a candidate against the full original reference text.
//
// The verdict is yearMatches AND (authorMatches OR scoreGate) AND
// titleOverlap. The title-overlap gate is applied even when the other
// checks pass: it guards against same-author, same-year, high-score
// results that are a different work.
func Validate(c reference.Candidate, context string, hasIdentifier bool, th Thresholds) Verdict {
	if year, ok := ExtractYear(context); ok && c.Year != year {
		return Verdict{Reason: fmt.Sprintf("year mismatch: candidate %d, source %d", c.Year, year)}
	}

	if !authorMatches(c, context) && !scoreGate(c.Score, hasIdentifier, th) {
		return Verdict{Reason: fmt.Sprintf("author mismatch and score %.1f below gate", c.Score)}
	}

	if !titleOverlaps(c.Title, context) {
		return Verdict{Reason: "no title-word overlap with source text"}
	}

	return Verdict{Accept: true}
}

// ExtractYear finds the first 4-digit year token (19xx/20xx) in text.
func ExtractYear(text string) (int, bool) {
	m := yearRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	year := 0
	for _, r := range m[1] {
		year = year*10 + int(r-'0')
	}
	return year, true
}

// authorMatches compares the candidate's first author surname against the
// first capitalized alphanumeric token of the source text. Vacuously true
// when the text has no such token; false when the candidate has no
// authors.
func authorMatches(c reference.Candidate, context string) bool {
	token := firstCapitalizedToken(context)
	if token == "" {
		return true
	}
	if len(c.Authors) == 0 {
		return false
	}
	surname := strings.ToLower(c.Authors[0].Family)
	if surname == "" {
		return false
	}
	token = strings.ToLower(token)
	return token == surname || strings.HasPrefix(token, surname) || strings.HasSuffix(token, surname)
}

func scoreGate(score float64, hasIdentifier bool, th Thresholds) bool {
	if hasIdentifier {
		return score > th.ScoreWithDOI
	}
	return score > th.Score
}

// firstCapitalizedToken returns the first alphanumeric token that begins
// with an uppercase letter.
func firstCapitalizedToken(text string) string {
	for _, tok := range splitAlnum(text) {
		r := []rune(tok)[0]
		if unicode.IsUpper(r) {
			return tok
		}
	}
	return ""
}

// splitAlnum splits text into maximal alphanumeric runs.
func splitAlnum(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// titleOverlaps reports whether any long word of the candidate title
// appears in the source text. Both sides are normalized to lowercase
// alphanumeric character streams so punctuation and spacing differences
// cannot hide a match. Titles with no long words pass vacuously.
func titleOverlaps(title, context string) bool {
	if context == "" {
		return true
	}
	stream := alnumStream(context)
	long := false
	for _, word := range splitAlnum(title) {
		if len(word) <= minTitleWordLen {
			continue
		}
		long = true
		if strings.Contains(stream, strings.ToLower(word)) {
			return true
		}
	}
	return !long
}

// alnumStream lowers text and drops every non-alphanumeric rune.
func alnumStream(text string) string {
	var b strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
