package s2

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/paper/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "mathematical theory of communication" {
			t.Errorf("query = %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "1" {
			t.Errorf("limit = %q", got)
		}
		if got := r.Header.Get("x-api-key"); got != "sekrit" {
			t.Errorf("x-api-key = %q", got)
		}

		_, _ = w.Write([]byte(`{
			"data": [
				{
					"paperId": "abc123",
					"title": "A Mathematical Theory of Communication",
					"year": 1948,
					"venue": "",
					"journal": {"name": "Bell System Technical Journal", "volume": "27", "pages": "379-423"},
					"authors": [{"name": "Claude Elwood Shannon"}],
					"externalIds": {"DOI": "10.1002/j.1538-7305.1948.tb01338.x"}
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithAPIKey("sekrit"))
	candidates, err := client.Search(context.Background(), "mathematical theory of communication", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}

	c := candidates[0]
	if c.Title != "A Mathematical Theory of Communication" {
		t.Errorf("Title = %q", c.Title)
	}
	if c.Venue != "Bell System Technical Journal" {
		t.Errorf("journal name fallback missed: Venue = %q", c.Venue)
	}
	if c.Volume != "27" || c.Pages != "379-423" {
		t.Errorf("Volume/Pages = %q/%q", c.Volume, c.Pages)
	}
	if c.Score != 0 {
		t.Errorf("Score = %v, want 0", c.Score)
	}
	if len(c.Authors) != 1 || c.Authors[0].Family != "Shannon" || c.Authors[0].Given != "Claude Elwood" {
		t.Errorf("Authors = %+v", c.Authors)
	}
	if c.Source != SourceName {
		t.Errorf("Source = %q", c.Source)
	}
}

func TestLookupByIdentifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/paper/DOI:10.1002%2Fj.1538-7305.1948.tb01338.x" {
			t.Errorf("path = %q", r.URL.EscapedPath())
		}
		_, _ = w.Write([]byte(`{
			"paperId": "abc123",
			"title": "A Mathematical Theory of Communication",
			"year": 1948,
			"externalIds": {"DOI": "10.1002/j.1538-7305.1948.tb01338.x"}
		}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	cand, err := client.LookupByIdentifier(context.Background(), "10.1002/j.1538-7305.1948.tb01338.x")
	if err != nil {
		t.Fatalf("LookupByIdentifier: %v", err)
	}
	if cand.Year != 1948 {
		t.Errorf("Year = %d", cand.Year)
	}
}

func TestLookupByIdentifier_EmptyTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"paperId": "abc123"}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	_, err := client.LookupByIdentifier(context.Background(), "10.9999/blank")
	if !IsNotFound(err) {
		t.Errorf("err = %v, want not-found", err)
	}
}

func TestSearch_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	_, err := client.Search(context.Background(), "anything", 1)
	if !IsRateLimited(err) {
		t.Errorf("err = %v, want rate-limited", err)
	}
}

func TestSplitAuthorName(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		given  string
		family string
	}{
		{"two parts", "Claude Shannon", "Claude", "Shannon"},
		{"middle name", "Claude Elwood Shannon", "Claude Elwood", "Shannon"},
		{"single token", "Bourbaki", "", "Bourbaki"},
		{"suffix jr", "Martin Luther King Jr", "Martin Luther", "King Jr"},
		{"suffix iii", "John Smith III", "John", "Smith III"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			given, family := splitAuthorName(tt.in)
			if given != tt.given || family != tt.family {
				t.Errorf("splitAuthorName(%q) = (%q, %q), want (%q, %q)",
					tt.in, given, family, tt.given, tt.family)
			}
		})
	}
}
