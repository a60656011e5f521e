package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Mode selects the segmentation strategy chosen by the format vote.
type Mode int

const (
	// ModeNameBased starts entries at author-name lines. It is also the
	// tie-break winner: numbered mode must win the vote outright.
	ModeNameBased Mode = iota
	// ModeNumbered starts entries at [n] / n. / (n) markers.
	ModeNumbered
)

func (m Mode) String() string {
	if m == ModeNumbered {
		return "numbered"
	}
	return "name-based"
}

// numberedMarkers are the leading-marker patterns that identify one entry
// in a numbered bibliography. Kept as an ordered table so each pattern is
// testable apart from the segmentation loop.
var numberedMarkers = []*regexp.Regexp{
	regexp.MustCompile(`^\[\d+\]`),
	regexp.MustCompile(`^\d+\.\s`),
	regexp.MustCompile(`^\(\d+\)`),
}

// authorInitialPattern matches a surname-comma-initial lead such as
// "Suquet, P.", "von Neumann, J." or "De Groot, J.", allowing Unicode
// letters and the common nobiliary particles in either case.
var authorInitialPattern = regexp.MustCompile(`^(?:(?:[Dd]e|[Vv]on|[Vv]an|[Dd]i|[Ll]e|[Ll]a)\s+)?\p{Lu}[\p{L}'-]+,\s+\p{Lu}\.`)

// multiCapPattern matches lines opening with several capitalized tokens,
// the usual shape of an author list without comma-initial punctuation.
var multiCapPattern = regexp.MustCompile(`^\p{Lu}[\p{L}'.-]*(?:\s+\p{Lu}[\p{L}'.-]*){2,}`)

// leadingNumbering strips the entry marker from the front of a raw entry.
var leadingNumbering = regexp.MustCompile(`^\s*(?:\[\d+\]|\(\d+\)|\d+\.)\s*`)

// continuationWords are sentence openers that mark a line as the
// continuation of the previous entry rather than a new author lead.
var continuationWords = map[string]bool{
	"The": true, "A": true, "An": true, "In": true, "On": true,
	"And": true, "For": true, "With": true, "From": true, "To": true,
	"Of": true, "At": true, "By": true,
}

const (
	// minAuthorLineLen keeps short capitalized fragments from voting as
	// author lines.
	minAuthorLineLen = 15
	// minEntryLenForSplit is how long an accumulating entry must be
	// before a name-based line may start a new one.
	minEntryLenForSplit = 60
	// minFinalEntryLen drops finalized entries too short to be a real
	// citation, measured after stripping leading numbering.
	minFinalEntryLen = 30
)

// matchesNumbered reports whether the line carries a numbered entry marker.
func matchesNumbered(line string) bool {
	for _, re := range numberedMarkers {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// matchesAuthorLead reports whether the line looks like the start of a
// name-based entry.
func matchesAuthorLead(line string) bool {
	if utf8.RuneCountInString(line) > minAuthorLineLen && authorInitialPattern.MatchString(line) {
		return true
	}
	return multiCapPattern.MatchString(line)
}

// StripNumbering removes a leading entry marker, if any, and trims the
// result.
func StripNumbering(s string) string {
	return strings.TrimSpace(leadingNumbering.ReplaceAllString(s, ""))
}
