package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/bibex/bibex/internal/reference"
	"github.com/bibex/bibex/internal/resolve"
)

// scriptedSource returns the candidates whose key substring appears in
// the search query.
type scriptedSource struct {
	name       string
	candidates map[string]reference.Candidate
}

func (s *scriptedSource) Name() string { return s.name }

func (s *scriptedSource) Search(_ context.Context, query string, _ int) ([]reference.Candidate, error) {
	for key, cand := range s.candidates {
		if strings.Contains(query, key) {
			return []reference.Candidate{cand}, nil
		}
	}
	return nil, nil
}

func (s *scriptedSource) LookupByIdentifier(context.Context, string) (*reference.Candidate, error) {
	return nil, context.Canceled
}

func strptr(s string) *string { return &s }

func fastOptions(src resolve.Source) Options {
	tun := resolve.DefaultTunables()
	tun.BatchDelay = 0
	return Options{Sources: []resolve.Source{src}, Tunables: tun}
}

func samplePages() []*string {
	body := strings.Join([]string{
		"Body text of the paper, long enough to be ordinary prose.",
		"References",
		"[1] Turing AM. On computable numbers and decision problems. Proc. Lond. Math. Soc. 1936.",
		"[2] Shannon CE. A mathematical theory of communication. Bell Syst. Tech. J. 1948.",
	}, "\n")
	return []*string{strptr(body)}
}

func TestRun_ResolvesInOrder(t *testing.T) {
	src := &scriptedSource{
		name: "crossref",
		candidates: map[string]reference.Candidate{
			"Turing": {
				Title:   "On Computable Numbers, with an Application to the Entscheidungsproblem",
				Authors: []reference.Author{{Given: "Alan", Family: "Turing"}},
				Year:    1936,
				Score:   80,
				Source:  "crossref",
			},
			"Shannon": {
				Title:   "A Mathematical Theory of Communication",
				Authors: []reference.Author{{Given: "Claude", Family: "Shannon"}},
				Year:    1948,
				Score:   80,
				Source:  "crossref",
			},
		},
	}

	result := Run(context.Background(), samplePages(), fastOptions(src))

	if result.Entries != 2 {
		t.Fatalf("Entries = %d, want 2", result.Entries)
	}
	if result.Stats.Resolved != 2 || result.Stats.Failed != 0 {
		t.Fatalf("Stats = %+v", result.Stats)
	}
	if len(result.Citations) != 2 {
		t.Fatalf("Citations = %v", result.Citations)
	}
	if !strings.Contains(result.Citations[0], "@article{Turing1936,") {
		t.Errorf("citation 0:\n%s", result.Citations[0])
	}
	if !strings.Contains(result.Citations[1], "@article{Shannon1948,") {
		t.Errorf("citation 1:\n%s", result.Citations[1])
	}
	if !strings.HasPrefix(result.Citations[0], "% source: crossref") {
		t.Errorf("missing provenance:\n%s", result.Citations[0])
	}
}

func TestRun_NoSection(t *testing.T) {
	pages := []*string{strptr("Ordinary prose with no bibliography heading at all.")}
	result := Run(context.Background(), pages, fastOptions(&scriptedSource{name: "crossref"}))

	if len(result.Citations) != 1 || result.Citations[0] != SentinelNoSection {
		t.Errorf("Citations = %v", result.Citations)
	}
}

func TestRun_NoValidReferences(t *testing.T) {
	// The source never returns a candidate, so every entry fails
	// resolution and the run collapses to the sentinel.
	src := &scriptedSource{name: "crossref"}
	result := Run(context.Background(), samplePages(), fastOptions(src))

	if result.Entries != 2 {
		t.Fatalf("Entries = %d, want 2", result.Entries)
	}
	if result.Stats.Failed != 2 {
		t.Fatalf("Stats = %+v", result.Stats)
	}
	if len(result.Citations) != 1 || result.Citations[0] != SentinelNoValid {
		t.Errorf("Citations = %v", result.Citations)
	}
}

func TestRun_SectionWithNoUsableEntries(t *testing.T) {
	body := "References\nshort line\nanother fragment here that never splits"
	result := Run(context.Background(), []*string{strptr(body)}, fastOptions(&scriptedSource{name: "crossref"}))

	if len(result.Citations) != 1 || result.Citations[0] != SentinelNoValid {
		t.Errorf("Citations = %v", result.Citations)
	}
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	opts := fastOptions(&scriptedSource{name: "crossref"})
	opts.Cancelled = func() bool { return true }

	result := Run(context.Background(), samplePages(), opts)

	if len(result.Citations) != 1 || result.Citations[0] != SentinelCancelled {
		t.Errorf("Citations = %v", result.Citations)
	}
}

func TestRun_CancelledMidResolution(t *testing.T) {
	src := &scriptedSource{
		name: "crossref",
		candidates: map[string]reference.Candidate{
			"Turing": {
				Title:   "On Computable Numbers, with an Application to the Entscheidungsproblem",
				Authors: []reference.Author{{Given: "Alan", Family: "Turing"}},
				Year:    1936,
				Score:   80,
				Source:  "crossref",
			},
		},
	}

	opts := fastOptions(src)
	opts.Tunables.BatchSize = 1
	polls := 0
	opts.Cancelled = func() bool {
		polls++
		// Let location and the first resolution batch through.
		return polls > 2
	}

	result := Run(context.Background(), samplePages(), opts)

	if !result.Stats.Cancelled {
		t.Fatal("Stats.Cancelled not set")
	}
	if len(result.Citations) != 2 {
		t.Fatalf("Citations = %v", result.Citations)
	}
	if !strings.Contains(result.Citations[0], "@article{Turing1936,") {
		t.Errorf("partial output lost:\n%s", result.Citations[0])
	}
	if result.Citations[1] != SentinelCancelled {
		t.Errorf("Citations[1] = %q", result.Citations[1])
	}
}

func TestRun_DuplicateEntriesResolveOnce(t *testing.T) {
	body := strings.Join([]string{
		"References",
		"[1] Turing AM. On computable numbers and decision problems. Proc. Lond. Math. Soc. 1936.",
		"[2] Turing AM. On computable numbers and decision problems. Proc. Lond. Math. Soc. 1936.",
	}, "\n")

	src := &scriptedSource{
		name: "crossref",
		candidates: map[string]reference.Candidate{
			"Turing": {
				Title:   "On Computable Numbers, with an Application to the Entscheidungsproblem",
				Authors: []reference.Author{{Given: "Alan", Family: "Turing"}},
				Year:    1936,
				Score:   80,
				Source:  "crossref",
			},
		},
	}

	result := Run(context.Background(), []*string{strptr(body)}, fastOptions(src))

	if result.Entries != 1 {
		t.Errorf("Entries = %d, want 1 after dedupe", result.Entries)
	}
	if len(result.Citations) != 1 {
		t.Errorf("Citations = %v", result.Citations)
	}
}
