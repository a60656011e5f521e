package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bibex/bibex/internal/cite"
)

var citeStyle string

func init() {
	rootCmd.AddCommand(citeCmd)
	citeCmd.Flags().StringVarP(&citeStyle, "style", "s", "apa", "Citation style: apa, mla, chicago")
}

var citeCmd = &cobra.Command{
	Use:   "cite <file.bib>",
	Short: "Render BibTeX entries as plain-text citations",
	Long: `Render the entries of a BibTeX file as plain-text citations in APA,
MLA, or Chicago style.

Examples:
  bibex cite refs.bib
  bibex cite refs.bib --style chicago --human`,
	Args: cobra.ExactArgs(1),
	RunE: runCite,
}

// CiteResult is the JSON output for the cite command.
type CiteResult struct {
	Style     string   `json:"style"`
	Citations []string `json:"citations"`
}

func runCite(cmd *cobra.Command, args []string) error {
	style, err := cite.ParseStyle(citeStyle)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", args[0], err)
	}

	citations := cite.FormatAll(string(data), style)

	if humanOutput {
		for _, c := range citations {
			fmt.Println(c)
		}
		return nil
	}
	return outputJSON(CiteResult{Style: string(style), Citations: citations})
}
