package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bibex/bibex/internal/reference"
	"github.com/bibex/bibex/internal/segment"
)

// stubSource is a scripted Source that records its calls.
type stubSource struct {
	name     string
	searchFn func(query string, limit int) ([]reference.Candidate, error)
	lookupFn func(id string) (*reference.Candidate, error)

	mu       sync.Mutex
	searches []string
	limits   []int
	lookups  []string
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Search(_ context.Context, query string, limit int) ([]reference.Candidate, error) {
	s.mu.Lock()
	s.searches = append(s.searches, query)
	s.limits = append(s.limits, limit)
	s.mu.Unlock()
	if s.searchFn == nil {
		return nil, nil
	}
	return s.searchFn(query, limit)
}

func (s *stubSource) LookupByIdentifier(_ context.Context, id string) (*reference.Candidate, error) {
	s.mu.Lock()
	s.lookups = append(s.lookups, id)
	s.mu.Unlock()
	if s.lookupFn == nil {
		return nil, errors.New("not found")
	}
	return s.lookupFn(id)
}

// mapCache is an in-memory Cache for tests.
type mapCache struct {
	mu   sync.Mutex
	m    map[string]reference.Candidate
	puts int
}

func newMapCache() *mapCache { return &mapCache{m: make(map[string]reference.Candidate)} }

func (c *mapCache) Get(key string) (*reference.Candidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cand, ok := c.m[key]
	if !ok {
		return nil, false
	}
	return &cand, true
}

func (c *mapCache) Put(key string, cand reference.Candidate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = cand
	c.puts++
	return nil
}

func makeEntry(i int, clean string) reference.Entry {
	return reference.Entry{Index: i, Raw: clean, Clean: clean, Key: segment.Key(clean)}
}

// matching returns a candidate that validates against a "{Family} X.
// {Title}. {Year}." entry text.
func matching(family, title string, year int) reference.Candidate {
	return reference.Candidate{
		Title:   title,
		Authors: []reference.Author{{Family: family}},
		Year:    year,
		Score:   80,
		Source:  "primary",
	}
}

func fastTunables() Tunables {
	t := DefaultTunables()
	t.BatchDelay = 0
	return t
}

func TestResolve_OrderPreservedUnderReversedCompletion(t *testing.T) {
	refs := []struct {
		family string
		title  string
		year   int
	}{
		{"Turing", "On Computable Numbers", 1936},
		{"Church", "An Unsolvable Problem of Elementary Number Theory", 1936},
		{"Shannon", "A Mathematical Theory of Communication", 1948},
		{"Hamming", "Error Detecting and Error Correcting Codes", 1950},
	}

	entries := make([]reference.Entry, len(refs))
	for i, ref := range refs {
		entries[i] = makeEntry(i, fmt.Sprintf("%s X. %s. %d.", ref.family, ref.title, ref.year))
	}

	src := &stubSource{
		name: "primary",
		searchFn: func(query string, _ int) ([]reference.Candidate, error) {
			for i, ref := range refs {
				if strings.Contains(query, ref.family) {
					// Later entries answer first.
					time.Sleep(time.Duration(len(refs)-i) * 5 * time.Millisecond)
					return []reference.Candidate{matching(ref.family, ref.title, ref.year)}, nil
				}
			}
			return nil, nil
		},
	}

	r := NewResolver([]Source{src}, WithTunables(fastTunables()))
	outcomes, stats := r.Resolve(context.Background(), entries)

	if stats.Resolved != len(refs) {
		t.Fatalf("resolved %d of %d: %+v", stats.Resolved, len(refs), stats)
	}
	for i, o := range outcomes {
		if o.Entry.Index != i {
			t.Errorf("slot %d holds entry %d", i, o.Entry.Index)
		}
		if !o.Resolved || o.Candidate == nil {
			t.Fatalf("slot %d unresolved: %+v", i, o)
		}
		if o.Candidate.Title != refs[i].title {
			t.Errorf("slot %d candidate %q, want %q", i, o.Candidate.Title, refs[i].title)
		}
	}
}

func TestResolve_CancellationBetweenBatches(t *testing.T) {
	entries := []reference.Entry{
		makeEntry(0, "Turing X. On Computable Numbers. 1936."),
		makeEntry(1, "Shannon X. A Mathematical Theory of Communication. 1948."),
		makeEntry(2, "Hamming X. Error Detecting and Error Correcting Codes. 1950."),
	}

	src := &stubSource{
		name: "primary",
		searchFn: func(query string, _ int) ([]reference.Candidate, error) {
			return []reference.Candidate{matching("Turing", "On Computable Numbers", 1936)}, nil
		},
	}

	var batches int
	tun := fastTunables()
	tun.BatchSize = 1
	r := NewResolver([]Source{src},
		WithTunables(tun),
		WithCancel(func() bool {
			batches++
			return batches > 1
		}),
	)

	outcomes, stats := r.Resolve(context.Background(), entries)

	if !stats.Cancelled {
		t.Fatal("Stats.Cancelled not set")
	}
	if !outcomes[0].Resolved {
		t.Error("first batch result lost")
	}
	if outcomes[1].Resolved || outcomes[2].Resolved {
		t.Error("entries past the cancellation point were processed")
	}
	if stats.Resolved != 1 || stats.Failed != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestResolve_IdentifierShortCircuit(t *testing.T) {
	cand := matching("Turing", "On Computable Numbers", 1936)
	src := &stubSource{
		name: "primary",
		lookupFn: func(id string) (*reference.Candidate, error) {
			if id != "10.1112/plms/s2-42.1.230" {
				t.Errorf("lookup id = %q", id)
			}
			return &cand, nil
		},
	}

	entries := []reference.Entry{
		makeEntry(0, "Turing X. On Computable Numbers. 1936. doi:10.1112/plms/s2-42.1.230"),
	}
	r := NewResolver([]Source{src}, WithTunables(fastTunables()))
	outcomes, _ := r.Resolve(context.Background(), entries)

	if !outcomes[0].Resolved {
		t.Fatalf("unresolved: %+v", outcomes[0])
	}
	if len(src.searches) != 0 {
		t.Errorf("free-text search ran despite identifier hit: %v", src.searches)
	}
	if len(src.lookups) != 1 {
		t.Errorf("lookups = %v", src.lookups)
	}
}

func TestResolve_IdentifierFailureFallsBack(t *testing.T) {
	src := &stubSource{
		name: "primary",
		lookupFn: func(string) (*reference.Candidate, error) {
			return nil, errors.New("not found")
		},
		searchFn: func(query string, _ int) ([]reference.Candidate, error) {
			return []reference.Candidate{matching("Turing", "On Computable Numbers", 1936)}, nil
		},
	}

	entries := []reference.Entry{
		makeEntry(0, "Turing X. On Computable Numbers. 1936. doi:10.1112/plms/s2-42.1.230"),
	}
	r := NewResolver([]Source{src}, WithTunables(fastTunables()))
	outcomes, _ := r.Resolve(context.Background(), entries)

	if !outcomes[0].Resolved {
		t.Fatalf("unresolved after fallback: %+v", outcomes[0])
	}
	if len(src.searches) == 0 {
		t.Error("search never ran after lookup failure")
	}
}

func TestResolve_SecondarySourceFallback(t *testing.T) {
	primary := &stubSource{
		name: "primary",
		searchFn: func(string, int) ([]reference.Candidate, error) {
			return nil, errors.New("service unavailable")
		},
	}
	cand := matching("Turing", "On Computable Numbers", 1936)
	cand.Source = "secondary"
	secondary := &stubSource{
		name: "secondary",
		searchFn: func(string, int) ([]reference.Candidate, error) {
			return []reference.Candidate{cand}, nil
		},
	}

	entries := []reference.Entry{makeEntry(0, "Turing X. On Computable Numbers. 1936.")}
	r := NewResolver([]Source{primary, secondary}, WithTunables(fastTunables()))
	outcomes, _ := r.Resolve(context.Background(), entries)

	if !outcomes[0].Resolved {
		t.Fatalf("unresolved: %+v", outcomes[0])
	}
	if outcomes[0].Source != "secondary" {
		t.Errorf("Source = %q, want secondary", outcomes[0].Source)
	}
	if primary.limits[0] != DefaultTunables().PrimaryResults {
		t.Errorf("primary limit = %d", primary.limits[0])
	}
	if secondary.limits[0] != DefaultTunables().SecondaryResults {
		t.Errorf("secondary limit = %d", secondary.limits[0])
	}
}

func TestResolve_TerseRetry(t *testing.T) {
	src := &stubSource{
		name: "primary",
		searchFn: func(query string, _ int) ([]reference.Candidate, error) {
			if query == "Turing 1936" {
				return []reference.Candidate{matching("Turing", "On Computable Numbers", 1936)}, nil
			}
			return nil, nil
		},
	}

	entries := []reference.Entry{makeEntry(0, "Turing X. On Computable Numbers. 1936.")}
	r := NewResolver([]Source{src}, WithTunables(fastTunables()))
	outcomes, _ := r.Resolve(context.Background(), entries)

	if !outcomes[0].Resolved {
		t.Fatalf("terse retry did not resolve: %+v", outcomes[0])
	}
	if len(src.searches) != 2 {
		t.Fatalf("searches = %v", src.searches)
	}
	if src.searches[1] != "Turing 1936" {
		t.Errorf("retry query = %q", src.searches[1])
	}
}

func TestResolve_CacheHitSkipsNetwork(t *testing.T) {
	cache := newMapCache()
	cand := matching("Turing", "On Computable Numbers", 1936)
	entry := makeEntry(0, "Turing X. On Computable Numbers. 1936.")
	_ = cache.Put(entry.Key, cand)
	cache.puts = 0

	src := &stubSource{name: "primary"}
	r := NewResolver([]Source{src}, WithTunables(fastTunables()), WithCache(cache))
	outcomes, _ := r.Resolve(context.Background(), []reference.Entry{entry})

	if !outcomes[0].Resolved || !outcomes[0].FromCache {
		t.Fatalf("outcome = %+v", outcomes[0])
	}
	if len(src.searches) != 0 || len(src.lookups) != 0 {
		t.Error("cache hit still reached the network")
	}
}

func TestResolve_AcceptFillsCache(t *testing.T) {
	cache := newMapCache()
	src := &stubSource{
		name: "primary",
		searchFn: func(string, int) ([]reference.Candidate, error) {
			return []reference.Candidate{matching("Turing", "On Computable Numbers", 1936)}, nil
		},
	}

	entry := makeEntry(0, "Turing X. On Computable Numbers. 1936.")
	r := NewResolver([]Source{src}, WithTunables(fastTunables()), WithCache(cache))
	_, _ = r.Resolve(context.Background(), []reference.Entry{entry})

	if cache.puts != 1 {
		t.Errorf("cache puts = %d, want 1", cache.puts)
	}
	if _, ok := cache.Get(entry.Key); !ok {
		t.Error("accepted candidate not cached")
	}
}

func TestResolve_Progress(t *testing.T) {
	src := &stubSource{name: "primary"}
	entries := []reference.Entry{
		makeEntry(0, "Turing X. On Computable Numbers. 1936."),
		makeEntry(1, "Shannon X. A Mathematical Theory of Communication. 1948."),
		makeEntry(2, "Hamming X. Error Detecting and Error Correcting Codes. 1950."),
	}

	var calls [][2]int
	tun := fastTunables()
	tun.BatchSize = 2
	r := NewResolver([]Source{src},
		WithTunables(tun),
		WithProgress(func(done, total int) { calls = append(calls, [2]int{done, total}) }),
	)
	_, _ = r.Resolve(context.Background(), entries)

	want := [][2]int{{2, 3}, {3, 3}}
	if len(calls) != len(want) {
		t.Fatalf("progress calls = %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %v, want %v", i, calls[i], want[i])
		}
	}
}

func TestRespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SuquetPM.Sur", "Suquet P M. Sur"},
		{"already spaced text", "already spaced text"},
		{"McBride", "Mc Bride"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Respace(tt.in); got != tt.want {
			t.Errorf("Respace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSparseWhitespace(t *testing.T) {
	dense := "a reasonably spaced reference entry with words"
	if sparseWhitespace(dense, 10) {
		t.Errorf("dense text judged sparse: %q", dense)
	}

	sparse := strings.Repeat("abcdefghij", 5) // 50 chars, no spaces
	if !sparseWhitespace(sparse, 10) {
		t.Errorf("sparse text judged dense: %q", sparse)
	}
}

func TestMinimalQueryParts(t *testing.T) {
	tests := []struct {
		text   string
		author string
		year   string
		ok     bool
	}{
		{"Turing AM. On computable numbers. 1936.", "Turing", "1936", true},
		{"no capitalized tokens here 1936", "", "", false},
		{"Turing AM. On computable numbers.", "", "", false},
	}

	for _, tt := range tests {
		author, year, ok := minimalQueryParts(tt.text)
		if author != tt.author || year != tt.year || ok != tt.ok {
			t.Errorf("minimalQueryParts(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.text, author, year, ok, tt.author, tt.year, tt.ok)
		}
	}
}
