package bibtex

import "strings"

const (
	// maxGivenSegmentLen is the length above which the text after a
	// comma is judged non-name noise rather than a given name.
	maxGivenSegmentLen = 40
)

// noiseMarkers flag bracketed fragments, identifiers, and pagination
// debris that OCR sometimes glues onto an author field.
var noiseMarkers = []string{"[", "]", "(", ")", "10.", "pp.", "http", ":"}

// ShortenAuthorField applies FormatAuthorName to each author in a BibTeX
// author field ("A and B and C").
func ShortenAuthorField(field string) string {
	authors := strings.Split(field, " and ")
	for i, a := range authors {
		authors[i] = FormatAuthorName(a)
	}
	return strings.Join(authors, " and ")
}

// FormatAuthorName shortens given-name components to initials, keeping
// the surname intact. Hyphenated given names keep the hyphen:
// "Jean-Pierre Dubois" becomes "J.-P. Dubois". Names that already carry
// two or more periods pass through unchanged.
//
// A "Family, Given" name whose second segment is overlong or contains
// bracket, identifier, or pagination markers is treated as surname plus
// noise, and only the surname is kept.
func FormatAuthorName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}

	if family, rest, ok := strings.Cut(name, ","); ok {
		family = strings.TrimSpace(family)
		given, _, _ := strings.Cut(rest, ",")
		given = strings.TrimSpace(given)
		if given == "" || isNameNoise(given) {
			return family
		}
		if strings.Count(name, ".") >= 2 {
			return name
		}
		return family + ", " + initials(given)
	}

	if strings.Count(name, ".") >= 2 {
		return name
	}

	parts := strings.Fields(name)
	if len(parts) < 2 {
		return name
	}
	family := parts[len(parts)-1]
	givens := make([]string, 0, len(parts)-1)
	for _, g := range parts[:len(parts)-1] {
		givens = append(givens, initials(g))
	}
	return strings.Join(givens, " ") + " " + family
}

// isNameNoise reports whether a supposed given-name segment is actually
// trailing reference debris.
func isNameNoise(s string) bool {
	if len(s) > maxGivenSegmentLen {
		return true
	}
	for _, marker := range noiseMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// initials converts one given-name component to initials, hyphen-aware.
func initials(given string) string {
	words := strings.Fields(given)
	out := make([]string, 0, len(words))
	for _, w := range words {
		hyphenated := strings.Split(w, "-")
		for i, h := range hyphenated {
			if h == "" {
				continue
			}
			hyphenated[i] = string([]rune(h)[0]) + "."
		}
		out = append(out, strings.Join(hyphenated, "-"))
	}
	return strings.Join(out, " ")
}
