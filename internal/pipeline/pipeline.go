// Package pipeline runs the full reference resolution flow: locate the
// bibliography, segment and deduplicate entries, resolve them against
// bibliographic sources, and emit citation text.
package pipeline

import (
	"context"

	"github.com/bibex/bibex/internal/bibtex"
	"github.com/bibex/bibex/internal/reference"
	"github.com/bibex/bibex/internal/resolve"
	"github.com/bibex/bibex/internal/section"
	"github.com/bibex/bibex/internal/segment"
)

// Sentinel comment strings returned in place of citation entries. The
// leading comment marker distinguishes them from real BibTeX output.
const (
	SentinelNoSection = "% no references section found"
	SentinelNoValid   = "% no valid references found"
	SentinelCancelled = "% extraction cancelled by user"
)

// Options configures a pipeline run.
type Options struct {
	// Sources is the ordered bibliographic source chain. Required.
	Sources []resolve.Source
	// Format controls citation rendering.
	Format reference.FormatOptions
	// Tunables overrides the default resolution tunables when non-zero.
	Tunables resolve.Tunables
	// Cache, when set, is consulted before any network lookup.
	Cache resolve.Cache
	// Progress, when set, is invoked with (processed, total) after each
	// batch.
	Progress func(done, total int)
	// Cancelled, when set, is polled per page during location and per
	// batch during resolution. A cancelled run returns partial results.
	Cancelled func() bool
}

// Result is the outcome of a full pipeline run.
type Result struct {
	// Citations is the ordered output list: BibTeX entries, or a single
	// sentinel line when nothing was produced, with the cancellation
	// sentinel appended to partial output.
	Citations []string `json:"citations"`
	// Entries is the number of deduplicated entries submitted for
	// resolution.
	Entries int `json:"entries"`
	// Pages is the number of pages that contributed bibliography text.
	Pages int `json:"pages"`
	// Stats summarizes resolution outcomes.
	Stats resolve.Stats `json:"stats"`
	// Outcomes carries per-entry diagnostics.
	Outcomes []resolve.Outcome `json:"outcomes,omitempty"`
}

// Run executes the pipeline over per-page text. It always returns a
// result list: failures to locate or resolve surface as sentinel strings,
// never as errors.
func Run(ctx context.Context, pages []*string, opts Options) Result {
	block := section.Locate(pages, opts.Cancelled)
	if block.Text == "" {
		if opts.Cancelled != nil && opts.Cancelled() {
			return Result{Citations: []string{SentinelCancelled}}
		}
		return Result{Citations: []string{SentinelNoSection}}
	}

	entries := segment.Dedupe(segment.Split(block.Text))
	result := Result{
		Entries: len(entries),
		Pages:   block.PageCount,
	}
	if len(entries) == 0 {
		result.Citations = []string{SentinelNoValid}
		return result
	}

	tun := opts.Tunables
	if tun.BatchSize == 0 {
		tun = resolve.DefaultTunables()
	}
	resolver := resolve.NewResolver(opts.Sources,
		resolve.WithTunables(tun),
		resolve.WithCache(opts.Cache),
		resolve.WithProgress(opts.Progress),
		resolve.WithCancel(opts.Cancelled),
	)

	outcomes, stats := resolver.Resolve(ctx, entries)
	result.Stats = stats
	result.Outcomes = outcomes

	for _, o := range outcomes {
		if !o.Resolved {
			continue
		}
		rec := bibtex.Build(*o.Candidate)
		result.Citations = append(result.Citations, bibtex.Format(rec, opts.Format))
	}

	switch {
	case stats.Cancelled:
		result.Citations = append(result.Citations, SentinelCancelled)
	case len(result.Citations) == 0:
		result.Citations = []string{SentinelNoValid}
	}

	return result
}
