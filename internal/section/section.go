// Package section locates the bibliography section within per-page
// document text.
package section

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Block is the text span believed to be the bibliography.
type Block struct {
	// Text is the concatenated bibliography text, one kept line per row.
	Text string
	// PageCount is the number of pages that contributed lines. Diagnostic
	// only.
	PageCount int
}

// headerVocab lists the exact headings that open a bibliography section.
// Matching is case-preserving: lowercase variants in running text do not
// count.
var headerVocab = []string{
	"References", "REFERENCES",
	"Bibliography", "BIBLIOGRAPHY",
	"Works Cited", "WORKS CITED",
	"Literature Cited", "LITERATURE CITED",
}

// mathGlyphs are operator and symbol runes that mark equation lines
// leaked from the body text.
const mathGlyphs = "∂∫∑αβγψϵ∈∀∃"

const (
	// minLineLen drops page furniture and stray fragments.
	minLineLen = 15
	// maxEquationLen bounds the short "x = y" lines skipped while
	// collecting.
	maxEquationLen = 40
)

// Locate scans pages in order for a bibliography heading and collects the
// section text through the end of the document. A nil page (extraction
// failed) is skipped. The cancel predicate is polled once per page; a nil
// predicate never cancels.
//
// When no heading is found the returned block has empty text. Callers must
// treat that as "no bibliography located", not as an error.
func Locate(pages []*string, cancelled func() bool) Block {
	var b strings.Builder
	collecting := false
	pageCount := 0

	for _, page := range pages {
		if cancelled != nil && cancelled() {
			break
		}
		if page == nil {
			continue
		}

		lines := strings.Split(*page, "\n")
		contributed := false

		for i, line := range lines {
			trimmed := strings.TrimSpace(line)

			if !collecting {
				if isHeader(trimmed, lines[i+1:]) {
					collecting = true
				}
				continue
			}

			if skipLine(trimmed) {
				continue
			}
			b.WriteString(trimmed)
			b.WriteString("\n")
			contributed = true
		}

		if contributed {
			pageCount++
		}
	}

	return Block{Text: b.String(), PageCount: pageCount}
}

// isHeader reports whether a line opens the bibliography. An exact vocab
// match always counts. A prefix match (e.g. "References:") counts only
// when the next non-blank line does not begin with a lowercase letter;
// otherwise the line is judged a sentence fragment, not a heading.
func isHeader(line string, rest []string) bool {
	for _, h := range headerVocab {
		if line == h {
			return true
		}
	}
	for _, h := range headerVocab {
		if strings.HasPrefix(line, h) {
			return !nextLineStartsLower(rest)
		}
	}
	return false
}

// nextLineStartsLower reports whether the first non-blank line in rest
// begins with a lowercase letter.
func nextLineStartsLower(rest []string) bool {
	for _, line := range rest {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		r := []rune(trimmed)[0]
		return unicode.IsLower(r)
	}
	return false
}

// skipLine filters equation debris and short fragments out of the
// collected section.
func skipLine(line string) bool {
	n := utf8.RuneCountInString(line)
	if n < minLineLen {
		return true
	}
	if strings.ContainsAny(line, mathGlyphs) {
		return true
	}
	if strings.Contains(line, "=") && n < maxEquationLen {
		return true
	}
	return false
}
