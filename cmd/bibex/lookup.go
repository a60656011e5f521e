package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibex/bibex/internal/bibtex"
	"github.com/bibex/bibex/internal/config"
	"github.com/bibex/bibex/internal/crossref"
	"github.com/bibex/bibex/internal/reference"
)

func init() {
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <doi>",
	Short: "Fetch the record registered under a DOI",
	Long: `Fetch the bibliographic record registered under a DOI from Crossref
and print it as a BibTeX entry.

Examples:
  bibex lookup 10.1112/plms/s2-42.1.230
  bibex lookup https://doi.org/10.1038/nature12373 --human`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

// LookupResult is the JSON output for the lookup command.
type LookupResult struct {
	Record reference.Record `json:"record"`
	BibTeX string           `json:"bibtex"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadGlobal()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	var opts []crossref.ClientOption
	if cfg.Mailto != "" {
		opts = append(opts, crossref.WithMailto(cfg.Mailto))
	}
	client := crossref.NewClient(opts...)

	cand, err := client.LookupByIdentifier(cmd.Context(), args[0])
	if err != nil {
		if crossref.IsNotFound(err) {
			exitWithError(ExitNotFound, "no record registered under %s", args[0])
		}
		if crossref.IsRateLimited(err) {
			exitWithError(ExitAPIError, "rate limited: %v", err)
		}
		exitWithError(ExitAPIError, "fetching record: %v", err)
	}

	rec := bibtex.Build(*cand)
	text := bibtex.Format(rec, cfg.FormatOptions())

	if humanOutput {
		fmt.Print(text)
		return nil
	}
	return outputJSON(LookupResult{Record: rec, BibTeX: text})
}
