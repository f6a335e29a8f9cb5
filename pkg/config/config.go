// Package config loads crewline configuration from TOML, YAML or JSON files.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/crewline/crewline/pkg/models"
)

// Config holds all configuration options for crewline.
type Config struct {
	// Ranking settings, including the signal weight vector
	Ranking RankingConfig `koanf:"ranking"`

	// Hotspot table settings
	Hotspots HotspotConfig `koanf:"hotspots"`

	// Output settings
	Output OutputConfig `koanf:"output"`
}

// RankingConfig controls the developer ranking.
type RankingConfig struct {
	// Weights for the ten signals. Must sum to 1.0 within tolerance;
	// the rank command validates before running.
	Weights models.Weights `koanf:"weights"`

	// TopN limits the summary table (0 = all).
	TopN int `koanf:"top_n"`

	// DetailedN limits the detailed breakdown.
	DetailedN int `koanf:"detailed_n"`
}

// HotspotConfig controls the hotspot table.
type HotspotConfig struct {
	// TopN limits the rendered table (0 = all).
	TopN int `koanf:"top_n"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Ranking: RankingConfig{
			Weights:   models.DefaultWeights(),
			TopN:      20,
			DetailedN: 10,
		},
		Hotspots: HotspotConfig{
			TopN: 20,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns
// defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"crewline.toml",
		"crewline.yaml",
		"crewline.yml",
		"crewline.json",
		".crewline.toml",
		".crewline.yaml",
		".crewline.yml",
		".crewline.json",
	}

	for _, name := range configNames {
		path := filepath.Join(".", name)
		if _, err := os.Stat(path); err == nil {
			cfg, err := Load(path)
			if err == nil {
				return cfg
			}
		}
	}

	return DefaultConfig()
}
