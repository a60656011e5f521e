// Package resolve drives concurrent resolution of reference entries
// against an ordered chain of bibliographic sources.
package resolve

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/bibex/bibex/internal/match"
	"github.com/bibex/bibex/internal/reference"
)

// Source is the bibliographic source capability. Sources are tried in
// order; adding one is a wiring change, not an orchestration change.
type Source interface {
	// Name identifies the source in record provenance.
	Name() string
	// Search runs a free-text bibliographic query, best matches first.
	Search(ctx context.Context, query string, limit int) ([]reference.Candidate, error)
	// LookupByIdentifier fetches the record registered under an
	// identifier such as a DOI.
	LookupByIdentifier(ctx context.Context, id string) (*reference.Candidate, error)
}

// Cache stores accepted candidates across runs, keyed by the entry's
// dedupe key. Implementations may be nil-safe no-ops.
type Cache interface {
	Get(key string) (*reference.Candidate, bool)
	Put(key string, c reference.Candidate) error
}

// Tunables are the empirically chosen resolution knobs. None of them has
// a documented derivation; they are named here so re-validation changes
// one place.
type Tunables struct {
	// BatchSize bounds concurrent outbound lookups.
	BatchSize int
	// BatchDelay is the pause between batches, bounding aggregate
	// request rate.
	BatchDelay time.Duration
	// PrimaryResults is how many ranked results to validate from the
	// primary source.
	PrimaryResults int
	// SecondaryResults is how many results to validate from each
	// fallback source.
	SecondaryResults int
	// Thresholds are the validator score gates.
	Thresholds match.Thresholds
	// SpaceRatio is the whitespace-density floor: text with fewer than
	// len/SpaceRatio spaces is re-spaced before querying.
	SpaceRatio int
}

// DefaultTunables returns the production defaults.
func DefaultTunables() Tunables {
	return Tunables{
		BatchSize:        4,
		BatchDelay:       100 * time.Millisecond,
		PrimaryResults:   5,
		SecondaryResults: 1,
		Thresholds:       match.DefaultThresholds(),
		SpaceRatio:       10,
	}
}

// Outcome is the per-entry resolution result. Slots in the outcome list
// line up with entry indices, so output order mirrors bibliography order
// regardless of completion order.
type Outcome struct {
	Entry     reference.Entry      `json:"entry"`
	Resolved  bool                 `json:"resolved"`
	Candidate *reference.Candidate `json:"candidate,omitempty"`
	Source    string               `json:"source,omitempty"`
	FromCache bool                 `json:"from_cache,omitempty"`
	// Reason records why the last candidate was rejected, for
	// diagnostics on unresolved entries.
	Reason string `json:"reason,omitempty"`
}

// Stats summarizes a resolution run.
type Stats struct {
	Resolved  int  `json:"resolved"`
	Failed    int  `json:"failed"`
	Cancelled bool `json:"cancelled"`
}

// Resolver batches entries and resolves each through the source chain.
type Resolver struct {
	sources  []Source
	tun      Tunables
	cache    Cache
	progress func(done, total int)
	cancel   func() bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache consults and fills a cross-run candidate cache.
func WithCache(c Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithProgress installs a callback invoked with (processed, total) after
// each batch.
func WithProgress(fn func(done, total int)) Option {
	return func(r *Resolver) { r.progress = fn }
}

// WithCancel installs a cancellation predicate polled before each batch.
func WithCancel(fn func() bool) Option {
	return func(r *Resolver) { r.cancel = fn }
}

// WithTunables overrides the default tunables.
func WithTunables(t Tunables) Option {
	return func(r *Resolver) { r.tun = t }
}

// NewResolver creates a resolver over an ordered source chain.
func NewResolver(sources []Source, opts ...Option) *Resolver {
	r := &Resolver{
		sources: sources,
		tun:     DefaultTunables(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tun.BatchSize <= 0 {
		r.tun.BatchSize = DefaultTunables().BatchSize
	}
	return r
}

// doiPattern matches an identifier-shaped token inside reference text.
var doiPattern = regexp.MustCompile(`10\.\d{4,}/\S+`)

// Resolve processes entries in fixed-size batches. Entries within a batch
// resolve concurrently; each goroutine writes only its own outcome slot,
// and all goroutines are joined before the next batch starts. A cancelled
// run returns the work completed so far with Stats.Cancelled set.
func (r *Resolver) Resolve(ctx context.Context, entries []reference.Entry) ([]Outcome, Stats) {
	outcomes := make([]Outcome, len(entries))
	var stats Stats

	total := len(entries)
	for start := 0; start < total; start += r.tun.BatchSize {
		if r.cancel != nil && r.cancel() {
			stats.Cancelled = true
			break
		}
		if start > 0 && r.tun.BatchDelay > 0 {
			time.Sleep(r.tun.BatchDelay)
		}

		end := start + r.tun.BatchSize
		if end > total {
			end = total
		}

		var wg sync.WaitGroup
		for _, e := range entries[start:end] {
			wg.Add(1)
			go func(e reference.Entry) {
				defer wg.Done()
				outcomes[e.Index] = r.resolveOne(ctx, e)
			}(e)
		}
		wg.Wait()

		if r.progress != nil {
			r.progress(end, total)
		}
	}

	for _, o := range outcomes {
		if o.Resolved {
			stats.Resolved++
		}
	}
	stats.Failed = total - stats.Resolved

	return outcomes, stats
}

// resolveOne runs the fallback chain for a single entry: identifier
// lookup, primary free-text search, then each fallback source, and
// finally a terse author-year retry.
func (r *Resolver) resolveOne(ctx context.Context, e reference.Entry) Outcome {
	out := Outcome{Entry: e}

	if r.cache != nil {
		if cand, ok := r.cache.Get(e.Key); ok {
			out.Resolved = true
			out.Candidate = cand
			out.Source = cand.Source
			out.FromCache = true
			return out
		}
	}

	text := normalizeDashes(e.Clean)
	doi := doiPattern.FindString(text)

	if doi != "" && len(r.sources) > 0 {
		if cand, err := r.sources[0].LookupByIdentifier(ctx, doi); err == nil && cand != nil {
			return r.accept(out, *cand)
		}
	}

	query := text
	if sparseWhitespace(query, r.tun.SpaceRatio) {
		query = Respace(query)
	}

	o, accepted := r.searchChain(ctx, out, query, text, doi != "")
	if accepted {
		return o
	}
	out = o

	// Terse retry: a minimal "{author} {year}" query can recover entries
	// whose full text confuses the search backends. Validation still
	// runs against the original full text.
	if author, year, ok := minimalQueryParts(text); ok {
		o, accepted = r.searchChain(ctx, out, author+" "+year, text, doi != "")
		if accepted {
			return o
		}
		out = o
	}

	return out
}

// searchChain queries each source in order and validates ranked results.
// Per-entry network or decode failures never abort the run; they count as
// "no match" for that source only.
func (r *Resolver) searchChain(ctx context.Context, out Outcome, query, srcText string, hasIdentifier bool) (Outcome, bool) {
	for i, src := range r.sources {
		limit := r.tun.SecondaryResults
		if i == 0 {
			limit = r.tun.PrimaryResults
		}

		candidates, err := src.Search(ctx, query, limit)
		if err != nil {
			out.Reason = err.Error()
			continue
		}

		for _, cand := range candidates {
			verdict := match.Validate(cand, srcText, hasIdentifier, r.tun.Thresholds)
			if verdict.Accept {
				return r.accept(out, cand), true
			}
			out.Reason = verdict.Reason
		}
	}
	return out, false
}

// accept records a validated candidate and fills the cache.
func (r *Resolver) accept(out Outcome, cand reference.Candidate) Outcome {
	out.Resolved = true
	out.Candidate = &cand
	out.Source = cand.Source
	out.Reason = ""
	if r.cache != nil {
		_ = r.cache.Put(out.Entry.Key, cand)
	}
	return out
}
