package reference

import "strings"

// Author represents a work author with given and family name parts.
type Author struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

// Name returns the author as "Given Family", or just the family name
// when no given name is known.
func (a Author) Name() string {
	if a.Given == "" {
		return a.Family
	}
	return a.Given + " " + a.Family
}

// JoinAuthors renders authors as "Given Family" strings joined with
// " and ", the form used in BibTeX author fields.
func JoinAuthors(authors []Author) string {
	parts := make([]string, 0, len(authors))
	for _, a := range authors {
		parts = append(parts, a.Name())
	}
	return strings.Join(parts, " and ")
}
