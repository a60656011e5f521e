package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bibex/bibex/internal/cache"
	"github.com/bibex/bibex/internal/config"
	"github.com/bibex/bibex/internal/crossref"
	"github.com/bibex/bibex/internal/pdf"
	"github.com/bibex/bibex/internal/pipeline"
	"github.com/bibex/bibex/internal/resolve"
	"github.com/bibex/bibex/internal/s2"
)

var (
	extractShortAuthors  bool
	extractAbbrevJournal bool
	extractNoCache       bool
	extractOutput        string
)

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVar(&extractShortAuthors, "short-authors", false, "Shorten author given names to initials")
	extractCmd.Flags().BoolVar(&extractAbbrevJournal, "abbrev-journals", false, "Abbreviate journal names where known")
	extractCmd.Flags().BoolVar(&extractNoCache, "no-cache", false, "Skip the resolution cache")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Write BibTeX to a file instead of stdout")
}

var extractCmd = &cobra.Command{
	Use:   "extract <pdf>",
	Short: "Extract and resolve the bibliography of a PDF",
	Long: `Extract per-page text from a PDF, locate its bibliography section,
and resolve each reference entry against Crossref and Semantic Scholar.

Output is a list of validated BibTeX entries in bibliography order.
Entries that cannot be resolved reduce the yield but never fail the run.

Examples:
  bibex extract paper.pdf
  bibex extract paper.pdf --short-authors --abbrev-journals -o refs.bib
  bibex extract paper.pdf --human`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

// ExtractResult is the JSON output for the extract command.
type ExtractResult struct {
	Citations []string `json:"citations"`
	Entries   int      `json:"entries"`
	Resolved  int      `json:"resolved"`
	Failed    int      `json:"failed"`
	Cancelled bool     `json:"cancelled,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	pages, err := pdf.ExtractPages(args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", args[0], err)
	}

	opts := buildPipelineOptions()
	opts.Format.ShortenAuthors = opts.Format.ShortenAuthors || extractShortAuthors
	opts.Format.AbbreviateJournals = opts.Format.AbbreviateJournals || extractAbbrevJournal

	if !extractNoCache {
		if db := openCache(); db != nil {
			defer db.Close()
			opts.Cache = db
		}
	}

	if humanOutput {
		opts.Progress = func(done, total int) {
			fmt.Fprintf(os.Stderr, "resolved %d/%d entries\n", done, total)
		}
	}

	result := pipeline.Run(cmd.Context(), pages, opts)
	return emitExtractResult(result)
}

// buildPipelineOptions assembles the source chain and tunables from
// global configuration.
func buildPipelineOptions() pipeline.Options {
	cfg, err := config.LoadGlobal()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	var crOpts []crossref.ClientOption
	if cfg.Mailto != "" {
		crOpts = append(crOpts, crossref.WithMailto(cfg.Mailto))
	}
	var s2Opts []s2.ClientOption
	if cfg.S2APIKey != "" {
		s2Opts = append(s2Opts, s2.WithAPIKey(cfg.S2APIKey))
	}

	return pipeline.Options{
		Sources: []resolve.Source{
			crossref.NewClient(crOpts...),
			s2.NewClient(s2Opts...),
		},
		Format:   cfg.FormatOptions(),
		Tunables: cfg.Tunables(),
	}
}

// openCache opens the resolution cache, or returns nil when it cannot be
// opened (the run proceeds without caching).
func openCache() *cache.DB {
	cfg, err := config.LoadGlobal()
	if err != nil {
		return nil
	}
	path := cfg.CachePath
	if path == "" {
		path = config.DefaultCachePath()
	}
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil
	}
	db, err := cache.Open(path)
	if err != nil {
		return nil
	}
	return db
}

// emitExtractResult writes a pipeline result in the selected output mode
// and to the optional output file.
func emitExtractResult(result pipeline.Result) error {
	text := strings.Join(result.Citations, "\n")

	if extractOutput != "" {
		if err := os.WriteFile(extractOutput, []byte(text+"\n"), 0644); err != nil {
			exitWithError(ExitError, "writing %s: %v", extractOutput, err)
		}
	}

	if humanOutput {
		fmt.Println(text)
		fmt.Fprintf(os.Stderr, "\n%d entries, %d resolved, %d unresolved\n",
			result.Entries, result.Stats.Resolved, result.Stats.Failed)
		return nil
	}

	return outputJSON(ExtractResult{
		Citations: result.Citations,
		Entries:   result.Entries,
		Resolved:  result.Stats.Resolved,
		Failed:    result.Stats.Failed,
		Cancelled: result.Stats.Cancelled,
	})
}
