package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bibex/bibex/internal/bibtex"
	"github.com/bibex/bibex/internal/reference"
)

var (
	cleanStrip        []string
	cleanDedupe       bool
	cleanShortAuthors bool
	cleanAbbrev       bool
	cleanWrite        bool
)

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringSliceVar(&cleanStrip, "strip", nil, "Field names to remove (e.g. abstract,url)")
	cleanCmd.Flags().BoolVar(&cleanDedupe, "dedupe", false, "Drop entries repeating a citation key")
	cleanCmd.Flags().BoolVar(&cleanShortAuthors, "short-authors", false, "Shorten author given names to initials")
	cleanCmd.Flags().BoolVar(&cleanAbbrev, "abbrev-journals", false, "Abbreviate journal names where known")
	cleanCmd.Flags().BoolVarP(&cleanWrite, "write", "w", false, "Rewrite the file in place")
}

var cleanCmd = &cobra.Command{
	Use:   "clean <file.bib>",
	Short: "Re-format a BibTeX file",
	Long: `Re-parse a BibTeX file and re-emit it with normalized field order,
extraneous inner braces removed from author names, and optional field
stripping, key deduplication, and author/journal transforms.

The pass is idempotent: cleaning a cleaned file changes nothing.

Examples:
  bibex clean refs.bib
  bibex clean refs.bib --strip abstract,url --dedupe -w`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", args[0], err)
	}

	cleaned := bibtex.Clean(string(data), bibtex.CleanOptions{
		Strip:  cleanStrip,
		Dedupe: cleanDedupe,
		Format: reference.FormatOptions{
			ShortenAuthors:     cleanShortAuthors,
			AbbreviateJournals: cleanAbbrev,
		},
	})

	if cleanWrite {
		if err := os.WriteFile(args[0], []byte(cleaned), 0644); err != nil {
			exitWithError(ExitError, "writing %s: %v", args[0], err)
		}
		if humanOutput {
			fmt.Printf("cleaned %s\n", args[0])
			return nil
		}
		return outputJSON(StatusResponse{Status: "cleaned", Path: args[0]})
	}

	fmt.Print(cleaned)
	return nil
}
