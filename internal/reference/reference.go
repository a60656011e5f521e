// Package reference defines the core domain types for bibliographic
// reference resolution.
package reference

// Entry is one citation's raw span from a bibliography section.
// It is immutable once created by the deduplication pass.
type Entry struct {
	// Index is the entry's slot in the resolution output. Output order
	// always mirrors bibliography order, regardless of which network
	// lookups finish first.
	Index int `json:"index"`

	// Raw is the original text span, numbering markers included.
	Raw string `json:"raw"`

	// Clean is the numbering-stripped, trimmed text used for queries.
	Clean string `json:"clean"`

	// Key is the dedupe key: the lowercased first 100 characters of Clean.
	// Unique within a run; enforced before any network call.
	Key string `json:"key"`
}

// Candidate is one search result from a bibliographic source, under
// consideration for a single entry. Candidates are transient per lookup.
type Candidate struct {
	Title   string   `json:"title"`
	Authors []Author `json:"authors"`
	Year    int      `json:"year"`
	Venue   string   `json:"venue"`
	Volume  string   `json:"volume,omitempty"`
	Issue   string   `json:"issue,omitempty"`
	Pages   string   `json:"pages,omitempty"`
	DOI     string   `json:"doi,omitempty"`
	Score   float64  `json:"score,omitempty"`
	Source  string   `json:"source"`
}

// Record is a normalized resolved citation, the only entity that
// outlives a run.
type Record struct {
	Key     string   `json:"key"` // citation key: first author surname + year
	Authors []Author `json:"authors"`
	Title   string   `json:"title"`
	Year    int      `json:"year"`
	Journal string   `json:"journal"`
	Volume  string   `json:"volume,omitempty"`
	Issue   string   `json:"issue,omitempty"`
	Pages   string   `json:"pages,omitempty"`
	DOI     string   `json:"doi,omitempty"`

	// Source names the bibliographic source that resolved the entry,
	// or "unresolved".
	Source string `json:"source"`
}

// FormatOptions controls citation text rendering. It is threaded through
// every formatting entry point rather than stored per record.
type FormatOptions struct {
	ShortenAuthors     bool `json:"shorten_authors"`
	AbbreviateJournals bool `json:"abbreviate_journals"`
}
