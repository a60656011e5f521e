package crossref

import (
	"strings"

	"github.com/bibex/bibex/internal/reference"
)

// Work is one item from the Crossref works API.
type Work struct {
	Title          []string     `json:"title"`
	Author         []workAuthor `json:"author"`
	Issued         dateParts    `json:"issued"`
	Published      dateParts    `json:"published"`
	ContainerTitle []string     `json:"container-title"`
	Volume         string       `json:"volume"`
	Issue          string       `json:"issue"`
	Page           string       `json:"page"`
	DOI            string       `json:"DOI"`
	Score          float64      `json:"score"`
	Type           string       `json:"type"`
}

type workAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type dateParts struct {
	DateParts [][]int `json:"date-parts"`
}

// Year returns the leading year component, or 0 when absent.
func (d dateParts) Year() int {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return 0
	}
	return d.DateParts[0][0]
}

// Candidate maps the work onto the domain candidate type.
func (w Work) Candidate() reference.Candidate {
	c := reference.Candidate{
		Volume: w.Volume,
		Issue:  w.Issue,
		Pages:  w.Page,
		DOI:    w.DOI,
		Score:  w.Score,
		Source: SourceName,
	}

	if len(w.Title) > 0 {
		c.Title = w.Title[0]
	}
	if len(w.ContainerTitle) > 0 {
		c.Venue = w.ContainerTitle[0]
	}

	c.Year = w.Issued.Year()
	if c.Year == 0 {
		c.Year = w.Published.Year()
	}

	c.Authors = make([]reference.Author, 0, len(w.Author))
	for _, a := range w.Author {
		c.Authors = append(c.Authors, reference.Author{Given: a.Given, Family: a.Family})
	}

	return c
}

// NormalizeDOI strips URL and scheme prefixes from a DOI and lowercases
// it for comparison and lookup.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.ToLower(doi)
}
