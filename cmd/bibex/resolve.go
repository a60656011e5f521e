package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bibex/bibex/internal/pipeline"
)

var resolveInput string

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVar(&resolveInput, "in", "", "Read text from a file instead of stdin")
	resolveCmd.Flags().BoolVar(&extractShortAuthors, "short-authors", false, "Shorten author given names to initials")
	resolveCmd.Flags().BoolVar(&extractAbbrevJournal, "abbrev-journals", false, "Abbreviate journal names where known")
	resolveCmd.Flags().BoolVar(&extractNoCache, "no-cache", false, "Skip the resolution cache")
	resolveCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Write BibTeX to a file instead of stdout")
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve references in raw text",
	Long: `Run the resolution pipeline over raw text read from stdin or a file.
The whole input is treated as a single page; it must contain a
bibliography heading (References, Bibliography, Works Cited, ...)
followed by the reference entries.

Examples:
  pdftotext paper.pdf - | bibex resolve
  bibex resolve --in refs.txt -o refs.bib`,
	Args: cobra.NoArgs,
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if resolveInput != "" {
		data, err = os.ReadFile(resolveInput)
		if err != nil {
			exitWithError(ExitDataError, "reading %s: %v", resolveInput, err)
		}
	} else {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			exitWithError(ExitDataError, "reading stdin: %v", err)
		}
	}

	text := string(data)
	pages := []*string{&text}

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
