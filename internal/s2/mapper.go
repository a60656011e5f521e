package s2

import (
	"strings"

	"github.com/bibex/bibex/internal/reference"
)

// Paper is one result from the Graph API paper endpoints.
type Paper struct {
	PaperID string `json:"paperId"`
	Title   string `json:"title"`
	Year    int    `json:"year"`
	Venue   string `json:"venue"`
	Journal struct {
		Name   string `json:"name"`
		Volume string `json:"volume"`
		Pages  string `json:"pages"`
	} `json:"journal"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	ExternalIDs struct {
		DOI string `json:"DOI"`
	} `json:"externalIds"`
}

// Candidate maps the paper onto the domain candidate type. The Graph API
// returns no relevance score, so candidates carry score zero and must
// pass author and title validation on their own.
func (p Paper) Candidate() reference.Candidate {
	c := reference.Candidate{
		Title:  p.Title,
		Year:   p.Year,
		Venue:  p.Venue,
		Volume: p.Journal.Volume,
		Pages:  p.Journal.Pages,
		DOI:    p.ExternalIDs.DOI,
		Source: SourceName,
	}
	if c.Venue == "" {
		c.Venue = p.Journal.Name
	}

	c.Authors = make([]reference.Author, 0, len(p.Authors))
	for _, a := range p.Authors {
		given, family := splitAuthorName(a.Name)
		c.Authors = append(c.Authors, reference.Author{Given: given, Family: family})
	}

	return c
}

// Common name suffixes to keep with the family name.
var nameSuffixes = map[string]bool{
	"jr":   true,
	"jr.":  true,
	"sr":   true,
	"sr.":  true,
	"ii":   true,
	"iii":  true,
	"iv":   true,
	"v":    true,
	"phd":  true,
	"ph.d": true,
	"md":   true,
	"m.d":  true,
}

// splitAuthorName splits a display name into given and family parts.
// Handles common suffixes (Jr, Sr, II, III, IV, PhD, MD).
//
// Known limitations:
// - Multi-part surnames (von Neumann, van der Waals) split incorrectly
// - Non-Western name formats may not be handled correctly
// - Middle names are included in the given name
func splitAuthorName(name string) (given, family string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}

	parts := strings.Fields(name)
	if len(parts) == 1 {
		return "", parts[0]
	}

	last := strings.ToLower(parts[len(parts)-1])
	if nameSuffixes[last] && len(parts) > 2 {
		family = parts[len(parts)-2] + " " + parts[len(parts)-1]
		given = strings.Join(parts[:len(parts)-2], " ")
	} else {
		family = parts[len(parts)-1]
		given = strings.Join(parts[:len(parts)-1], " ")
	}

	return given, family
}
