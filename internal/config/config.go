// Package config handles global configuration and resolution tunables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bibex/bibex/internal/reference"
	"github.com/bibex/bibex/internal/resolve"
)

// GlobalConfig is the configuration stored in ~/.config/bibex/config.yml.
// Every resolution knob here overrides a default tunable; zero values
// mean "use the default".
type GlobalConfig struct {
	// Mailto routes Crossref requests to the polite pool.
	Mailto string `yaml:"mailto,omitempty"`
	// S2APIKey authenticates Semantic Scholar requests.
	S2APIKey string `yaml:"s2_api_key,omitempty"`
	// CachePath overrides the default resolution cache location.
	CachePath string `yaml:"cache_path,omitempty"`

	ShortenAuthors     bool `yaml:"shorten_authors,omitempty"`
	AbbreviateJournals bool `yaml:"abbreviate_journals,omitempty"`

	BatchSize    int     `yaml:"batch_size,omitempty"`
	BatchDelayMS int     `yaml:"batch_delay_ms,omitempty"`
	ScoreGate    float64 `yaml:"score_gate,omitempty"`
	ScoreGateDOI float64 `yaml:"score_gate_doi,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "bibex"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// CacheFile is the default resolution cache file name.
	CacheFile = "cache.db"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/bibex/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// DefaultCachePath returns the default location of the resolution cache,
// beside the global config file.
func DefaultCachePath() string {
	path := GlobalConfigPath()
	if path == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(path), CacheFile)
}

// LoadGlobal loads the global configuration file. Returns an empty config
// (not an error) if the file doesn't exist.
func LoadGlobal() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// Save writes the global configuration file, creating its directory if
// needed.
func (c *GlobalConfig) Save() error {
	path := GlobalConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding global config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}

	globalConfigCache = c
	return nil
}

// ResetCache clears the in-process config cache (for testing).
func ResetCache() {
	globalConfigCache = nil
}

// Tunables merges the config's overrides onto the default resolution
// tunables.
func (c *GlobalConfig) Tunables() resolve.Tunables {
	tun := resolve.DefaultTunables()
	if c.BatchSize > 0 {
		tun.BatchSize = c.BatchSize
	}
	if c.BatchDelayMS > 0 {
		tun.BatchDelay = time.Duration(c.BatchDelayMS) * time.Millisecond
	}
	if c.ScoreGate > 0 {
		tun.Thresholds.Score = c.ScoreGate
	}
	if c.ScoreGateDOI > 0 {
		tun.Thresholds.ScoreWithDOI = c.ScoreGateDOI
	}
	return tun
}

// FormatOptions returns the configured default formatting options.
func (c *GlobalConfig) FormatOptions() reference.FormatOptions {
	return reference.FormatOptions{
		ShortenAuthors:     c.ShortenAuthors,
		AbbreviateJournals: c.AbbreviateJournals,
	}
}
