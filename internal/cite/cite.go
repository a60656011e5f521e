// Package cite renders parsed BibTeX entries as plain-text citations in
// APA, MLA, and Chicago styles.
package cite

import (
	"fmt"
	"strings"

	"github.com/bibex/bibex/internal/bibtex"
)

// Style selects a citation style.
type Style string

const (
	APA     Style = "apa"
	MLA     Style = "mla"
	Chicago Style = "chicago"
)

// ParseStyle validates a user-supplied style name.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(s)) {
	case APA:
		return APA, nil
	case MLA:
		return MLA, nil
	case Chicago:
		return Chicago, nil
	}
	return "", fmt.Errorf("unknown citation style %q (valid: apa, mla, chicago)", s)
}

// Format renders one parsed entry in the given style.
func Format(e bibtex.Entry, style Style) string {
	authors := splitAuthors(e.Fields["author"])
	title := e.Fields["title"]
	journal := e.Fields["journal"]
	year := e.Fields["year"]
	volume := e.Fields["volume"]
	issue := e.Fields["number"]
	pages := e.Fields["pages"]
	doi := e.Fields["doi"]

	switch style {
	case MLA:
		return mla(authors, title, journal, year, volume, issue, pages)
	case Chicago:
		return chicago(authors, title, journal, year, volume, issue, pages)
	default:
		return apa(authors, title, journal, year, volume, issue, pages, doi)
	}
}

// FormatAll renders every entry in the text, one citation per line.
func FormatAll(text string, style Style) []string {
	entries := bibtex.Parse(text)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, Format(e, style))
	}
	return out
}

// apa: Last, F. M., & Last, F. M. (Year). Title. Journal, vol(issue),
// pages. doi
func apa(authors []author, title, journal, year, volume, issue, pages, doi string) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		names = append(names, a.lastInitials())
	}

	var b strings.Builder
	b.WriteString(joinWithAmpersand(names))
	if year != "" {
		fmt.Fprintf(&b, " (%s).", year)
	}
	if title != "" {
		fmt.Fprintf(&b, " %s.", title)
	}
	if journal != "" {
		fmt.Fprintf(&b, " %s", journal)
		if volume != "" {
			fmt.Fprintf(&b, ", %s", volume)
			if issue != "" {
				fmt.Fprintf(&b, "(%s)", issue)
			}
		}
		if pages != "" {
			fmt.Fprintf(&b, ", %s", pages)
		}
		b.WriteString(".")
	}
	if doi != "" {
		fmt.Fprintf(&b, " https://doi.org/%s", doi)
	}
	return strings.TrimSpace(b.String())
}

// mla: Last, First, and First Last. "Title." Journal, vol. V, no. N,
// Year, pp. P. Only the first author is inverted.
func mla(authors []author, title, journal, year, volume, issue, pages string) string {
	var b strings.Builder
	b.WriteString(joinNatural(invertFirst(authors)))
	if b.Len() > 0 {
		b.WriteString(". ")
	}
	if title != "" {
		fmt.Fprintf(&b, "\"%s.\" ", title)
	}
	if journal != "" {
		b.WriteString(journal)
		if volume != "" {
			fmt.Fprintf(&b, ", vol. %s", volume)
		}
		if issue != "" {
			fmt.Fprintf(&b, ", no. %s", issue)
		}
		if year != "" {
			fmt.Fprintf(&b, ", %s", year)
		}
		if pages != "" {
			fmt.Fprintf(&b, ", pp. %s", pages)
		}
		b.WriteString(".")
	}
	return strings.TrimSpace(b.String())
}

// chicago: Last, First, and First Last. "Title." Journal vol, no. N
// (Year): pages. Same first-author inversion rule as MLA.
func chicago(authors []author, title, journal, year, volume, issue, pages string) string {
	var b strings.Builder
	b.WriteString(joinNatural(invertFirst(authors)))
	if b.Len() > 0 {
		b.WriteString(". ")
	}
	if title != "" {
		fmt.Fprintf(&b, "\"%s.\" ", title)
	}
	if journal != "" {
		b.WriteString(journal)
		if volume != "" {
			fmt.Fprintf(&b, " %s", volume)
		}
		if issue != "" {
			fmt.Fprintf(&b, ", no. %s", issue)
		}
		if year != "" {
			fmt.Fprintf(&b, " (%s)", year)
		}
		if pages != "" {
			fmt.Fprintf(&b, ": %s", pages)
		}
		b.WriteString(".")
	}
	return strings.TrimSpace(b.String())
}

// invertFirst renders the first author as "Last, First" and the rest as
// "First Last".
func invertFirst(authors []author) []string {
	names := make([]string, 0, len(authors))
	for i, a := range authors {
		if i == 0 {
			names = append(names, a.inverted())
		} else {
			names = append(names, a.natural())
		}
	}
	return names
}

// joinWithAmpersand joins APA-style: "A., & B." with the last separator
// an ampersand.
func joinWithAmpersand(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", & " + names[len(names)-1]
}

// joinNatural joins MLA/Chicago-style: "A, and B".
func joinNatural(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
}
