package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bibex/bibex/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage global configuration",
	Long: `Manage the global configuration stored in
$XDG_CONFIG_HOME/bibex/config.yml.

Keys: mailto, s2_api_key, cache_path, shorten_authors,
abbreviate_journals, batch_size, batch_delay_ms, score_gate,
score_gate_doi`,
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the global configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadGlobal()
		if err != nil {
			exitWithError(ExitConfigError, "loading config: %v", err)
		}
		if humanOutput {
			fmt.Printf("config file: %s\n", config.GlobalConfigPath())
			fmt.Printf("mailto: %s\n", cfg.Mailto)
			fmt.Printf("s2_api_key set: %t\n", cfg.S2APIKey != "")
			fmt.Printf("cache_path: %s\n", cfg.CachePath)
			return nil
		}
		return outputJSON(cfg)
	},
}

// UpdateResponse is the JSON output for config set.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a global configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadGlobal()
		if err != nil {
			exitWithError(ExitConfigError, "loading config: %v", err)
		}

		if err := applyConfigValue(cfg, args[0], args[1]); err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if err := cfg.Save(); err != nil {
			exitWithError(ExitConfigError, "saving config: %v", err)
		}

		if humanOutput {
			fmt.Printf("%s = %s\n", args[0], args[1])
			return nil
		}
		return outputJSON(UpdateResponse{Status: "updated", Key: args[0], Value: args[1]})
	},
}

// applyConfigValue sets one config key from its string form.
func applyConfigValue(cfg *config.GlobalConfig, key, value string) error {
	switch key {
	case "mailto":
		cfg.Mailto = value
	case "s2_api_key":
		cfg.S2APIKey = value
	case "cache_path":
		cfg.CachePath = value
	case "shorten_authors", "abbreviate_journals":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q for %s", value, key)
		}
		if key == "shorten_authors" {
			cfg.ShortenAuthors = b
		} else {
			cfg.AbbreviateJournals = b
		}
	case "batch_size", "batch_delay_ms":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid positive integer %q for %s", value, key)
		}
		if key == "batch_size" {
			cfg.BatchSize = n
		} else {
			cfg.BatchDelayMS = n
		}
	case "score_gate", "score_gate_doi":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid positive number %q for %s", value, key)
		}
		if key == "score_gate" {
			cfg.ScoreGate = f
		} else {
			cfg.ScoreGateDOI = f
		}
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
