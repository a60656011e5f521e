package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibex/bibex/internal/config"
	"github.com/bibex/bibex/internal/crossref"
	"github.com/bibex/bibex/internal/reference"
)

var searchLimit int

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "Maximum number of results")
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Free-text bibliographic search",
	Long: `Run a free-text bibliographic query against Crossref and list the
ranked candidate records.

Examples:
  bibex search "turing computable numbers 1936"
  bibex search "suquet plasticite" --limit 10 --human`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

// SearchResult is the JSON output for the search command.
type SearchResult struct {
	Query      string                `json:"query"`
	Candidates []reference.Candidate `json:"candidates"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadGlobal()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	var opts []crossref.ClientOption
	if cfg.Mailto != "" {
		opts = append(opts, crossref.WithMailto(cfg.Mailto))
	}
	client := crossref.NewClient(opts...)

	candidates, err := client.Search(cmd.Context(), args[0], searchLimit)
	if err != nil {
		if crossref.IsRateLimited(err) {
			exitWithError(ExitAPIError, "rate limited: %v", err)
		}
		exitWithError(ExitAPIError, "searching: %v", err)
	}

	if humanOutput {
		for i, c := range candidates {
			fmt.Printf("%d. [%.1f] %s\n", i+1, c.Score, c.Title)
			fmt.Printf("   %s (%d), %s\n", reference.JoinAuthors(c.Authors), c.Year, c.Venue)
			if c.DOI != "" {
				fmt.Printf("   doi:%s\n", c.DOI)
			}
			fmt.Println()
		}
		return nil
	}
	return outputJSON(SearchResult{Query: args[0], Candidates: candidates})
}
