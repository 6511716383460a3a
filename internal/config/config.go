package config

import (
	"errors"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Config holds runtime options, populated from environment variables.
// Per-run extraction options live in the Settings file instead.
type Config struct {
	WarehousePath   string // path to the PUDL sqlite database
	RegionShapefile string // path to the reference-region boundary shapefile
	ResultsRoot     string // parent directory for per-run results folders
	LogLevel        string
	LogFormat       string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	cfg := &Config{
		WarehousePath:   envOrDefault("PUDL_DB", "pudl.sqlite"),
		RegionShapefile: envOrDefault("REGION_SHAPEFILE", "data/ipm_regions.shp"),
		ResultsRoot:     envOrDefault("RESULTS_ROOT", "results"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "text"),
	}

	if cfg.WarehousePath == "" {
		return nil, errors.New("PUDL_DB is required")
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Settings is the per-run extraction configuration, loaded once from a YAML
// file and treated as immutable afterwards. Clustering and technology
// options beyond the known keys are carried opaquely in Extra so builders
// can read them without the loader enumerating every option.
type Settings struct {
	ModelRegions       []string            `yaml:"model_regions"`
	RegionAggregations map[string][]string `yaml:"region_aggregations"`

	Extra map[string]interface{} `yaml:",inline"`
}

// LoadSettings parses the YAML settings file at path.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings file: %w", err)
	}

	if len(s.ModelRegions) == 0 {
		return nil, errors.New("settings: model_regions is required and must not be empty")
	}
	if s.RegionAggregations == nil {
		s.RegionAggregations = map[string][]string{}
	}
	return &s, nil
}

// ExtraString returns a string-typed opaque option, with a fallback.
func (s *Settings) ExtraString(key, fallback string) string {
	if v, ok := s.Extra[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return fallback
}

// ExtraBool returns a bool-typed opaque option, with a fallback.
func (s *Settings) ExtraBool(key string, fallback bool) bool {
	if v, ok := s.Extra[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}
