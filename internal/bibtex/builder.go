// Package bibtex builds normalized citation records from accepted
// candidates and serializes them as BibTeX.
package bibtex

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/bibex/bibex/internal/reference"
)

// Unresolved is the provenance value for entries no source could match.
const Unresolved = "unresolved"

// markupRe matches HTML/JATS markup fragments that leak into titles.
var markupRe = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

// Build converts an accepted candidate into a citation record. The
// citation key is the first author's surname joined with the year.
func Build(c reference.Candidate) reference.Record {
	rec := reference.Record{
		Authors: c.Authors,
		Title:   stripMarkup(c.Title),
		Year:    c.Year,
		Journal: c.Venue,
		Volume:  c.Volume,
		Issue:   c.Issue,
		Pages:   c.Pages,
		DOI:     c.DOI,
		Source:  c.Source,
	}
	rec.Key = CitationKey(c.Authors, c.Year)
	return rec
}

// CitationKey derives a key like "Turing1936" from the first author's
// surname and the year. Non-alphanumeric runes are dropped so multi-part
// and accented surnames stay usable as keys.
func CitationKey(authors []reference.Author, year int) string {
	surname := "unknown"
	if len(authors) > 0 && authors[0].Family != "" {
		surname = authors[0].Family
	}

	var b strings.Builder
	for _, r := range surname {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return fmt.Sprintf("%s%d", b.String(), year)
}

// stripMarkup removes markup tags from candidate titles.
func stripMarkup(s string) string {
	return strings.TrimSpace(markupRe.ReplaceAllString(s, ""))
}

// fieldOrder is the fixed serialization order for BibTeX fields.
var fieldOrder = []string{"author", "title", "year", "journal", "volume", "number", "pages", "doi"}

// Format renders a record as a BibTeX entry preceded by a provenance
// comment naming the source that resolved it.
func Format(rec reference.Record, opts reference.FormatOptions) string {
	fields := map[string]string{
		"author":  reference.JoinAuthors(rec.Authors),
		"title":   rec.Title,
		"year":    fmt.Sprintf("%d", rec.Year),
		"journal": rec.Journal,
		"volume":  rec.Volume,
		"number":  rec.Issue,
		"pages":   rec.Pages,
		"doi":     rec.DOI,
	}
	if rec.Year == 0 {
		fields["year"] = ""
	}

	applyFormatOptions(fields, opts)

	var b strings.Builder
	fmt.Fprintf(&b, "%% source: %s\n", rec.Source)
	fmt.Fprintf(&b, "@article{%s,\n", rec.Key)
	for _, name := range fieldOrder {
		if fields[name] == "" {
			continue
		}
		fmt.Fprintf(&b, "  %s = {%s},\n", name, fields[name])
	}
	b.WriteString("}\n")
	return b.String()
}

// applyFormatOptions runs the author and journal transforms over a field
// map in place.
func applyFormatOptions(fields map[string]string, opts reference.FormatOptions) {
	if opts.ShortenAuthors && fields["author"] != "" {
		fields["author"] = ShortenAuthorField(fields["author"])
	}
	if opts.AbbreviateJournals && fields["journal"] != "" {
		fields["journal"] = AbbreviateJournal(fields["journal"])
	}
}
