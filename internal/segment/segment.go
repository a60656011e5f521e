// Package segment splits a bibliography block into discrete reference
// entries and deduplicates them ahead of network resolution.
package segment

import (
	"strings"
	"unicode/utf8"

	"github.com/bibex/bibex/internal/reference"
)

// DetectMode runs the format vote over the block's lines: numbered-marker
// lines against author-lead lines. Numbered mode must win outright; a tie
// selects name-based mode.
func DetectMode(lines []string) Mode {
	numbered, named := 0, 0
	for _, line := range lines {
		if matchesNumbered(line) {
			numbered++
		}
		if utf8.RuneCountInString(line) > minAuthorLineLen && authorInitialPattern.MatchString(line) {
			named++
		}
	}
	if numbered > named {
		return ModeNumbered
	}
	return ModeNameBased
}

// Split segments the block text into ordered raw entry strings. Entry
// order is preserved from the source; entries shorter than 30 characters
// after numbering is stripped are dropped.
func Split(block string) []string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	mode := DetectMode(lines)

	var entries []string
	var current strings.Builder

	flush := func() {
		entry := strings.TrimSpace(current.String())
		if utf8.RuneCountInString(StripNumbering(entry)) >= minFinalEntryLen {
			entries = append(entries, entry)
		}
		current.Reset()
	}

	for _, line := range lines {
		segs := []string{line}
		if mode == ModeNameBased {
			segs = splitInline(line)
		}
		for j, seg := range segs {
			if j > 0 || startsNewEntry(mode, seg, current.Len()) {
				flush()
			}
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(seg)
		}
	}
	flush()

	return entries
}

// splitInline cuts a line where one name-based entry ends and the next
// begins on the same physical line: a sentence-ending period followed by
// a surname-comma-initial lead. Only the strict comma-initial form cuts
// here, so abbreviated venue runs ("Ann. Inst. Fourier") stay intact.
func splitInline(line string) []string {
	var segs []string
	start := 0

	for i := 0; i < len(line)-1; i++ {
		if line[i] != '.' || line[i+1] != ' ' {
			continue
		}
		j := i + 1
		for j < len(line) && line[j] == ' ' {
			j++
		}
		rest := line[j:]
		if utf8.RuneCountInString(rest) <= minAuthorLineLen || !authorInitialPattern.MatchString(rest) {
			continue
		}
		segs = append(segs, strings.TrimSpace(line[start:i+1]))
		start = j
		i = j - 1
	}

	segs = append(segs, strings.TrimSpace(line[start:]))
	return segs
}

// startsNewEntry decides whether a line opens a fresh entry under the
// chosen mode.
func startsNewEntry(mode Mode, line string, accumulated int) bool {
	if mode == ModeNumbered {
		return matchesNumbered(line)
	}

	first, _, _ := strings.Cut(line, " ")
	if continuationWords[first] {
		return false
	}
	if !matchesAuthorLead(line) {
		return false
	}
	return accumulated == 0 || accumulated >= minEntryLenForSplit
}

const (
	// minCleanLen discards cleaned entries too short to resolve.
	minCleanLen = 20
	// keyLen is the normalized prefix length of the dedupe key.
	keyLen = 100
)

// Key computes the dedupe key for cleaned entry text: the lowercased
// first 100 characters.
func Key(clean string) string {
	lower := strings.ToLower(clean)
	if utf8.RuneCountInString(lower) <= keyLen {
		return lower
	}
	runes := []rune(lower)
	return string(runes[:keyLen])
}

// Dedupe strips numbering from raw entries, discards entries whose
// cleaned text is under 20 characters, and collapses entries sharing a
// dedupe key. Each surviving entry gets the next output slot index, so at
// most one resolution attempt happens per distinct logical reference.
func Dedupe(raws []string) []reference.Entry {
	seen := make(map[string]bool, len(raws))
	var entries []reference.Entry

	for _, raw := range raws {
		clean := StripNumbering(raw)
		if utf8.RuneCountInString(clean) < minCleanLen {
			continue
		}
		key := Key(clean)
		if seen[key] {
			continue
		}
		seen[key] = true
		entries = append(entries, reference.Entry{
			Index: len(entries),
			Raw:   raw,
			Clean: clean,
			Key:   key,
		})
	}

	return entries
}
