// Package main provides the bibex CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibex",
	Short: "Bibliography extraction and reference resolution",
	Long: `bibex locates the bibliography in a document, segments it into
individual reference entries, resolves each entry against bibliographic
search services (Crossref, Semantic Scholar), and emits validated BibTeX
and derived citation styles.

Unresolved entries are a normal outcome, not an error. All commands
output JSON by default; use --human for human-readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env if present (for S2_API_KEY, BIBEX_MAILTO)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
