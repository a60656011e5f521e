package cite

import "strings"

// author is one parsed name from a BibTeX author field.
type author struct {
	given  string
	family string
}

// splitAuthors parses a BibTeX author field ("A and B and C") into name
// parts, accepting both "Family, Given" and "Given Family" forms.
func splitAuthors(field string) []author {
	if strings.TrimSpace(field) == "" {
		return nil
	}

	parts := strings.Split(field, " and ")
	authors := make([]author, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if family, given, ok := strings.Cut(p, ","); ok {
			authors = append(authors, author{
				given:  strings.TrimSpace(given),
				family: strings.TrimSpace(family),
			})
			continue
		}
		fields := strings.Fields(p)
		if len(fields) == 1 {
			authors = append(authors, author{family: fields[0]})
			continue
		}
		authors = append(authors, author{
			given:  strings.Join(fields[:len(fields)-1], " "),
			family: fields[len(fields)-1],
		})
	}
	return authors
}

// natural renders "Given Family".
func (a author) natural() string {
	if a.given == "" {
		return a.family
	}
	return a.given + " " + a.family
}

// inverted renders "Family, Given".
func (a author) inverted() string {
	if a.given == "" {
		return a.family
	}
	return a.family + ", " + a.given
}

// lastInitials renders the APA form "Family, F. M.".
func (a author) lastInitials() string {
	if a.given == "" {
		return a.family
	}

	var initials []string
	for _, w := range strings.Fields(a.given) {
		for _, part := range strings.Split(w, "-") {
			if part == "" {
				continue
			}
			initials = append(initials, string([]rune(part)[0])+".")
		}
	}
	return a.family + ", " + strings.Join(initials, " ")
}
