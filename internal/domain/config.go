package domain

import (
	"fmt"
	"strings"
	"time"
)

// Configuration defaults.
const (
	DefaultMaxFiles          = 200
	DefaultMaxFileBytes      = 256 * 1024
	DefaultEnrichmentTimeout = 45
	DefaultEnrichmentModel   = "gpt-4o-mini"
	DefaultEnrichmentURL     = "https://api.openai.com/v1"
)

// ValidLogLevels enumerates the accepted log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ProjectConfig holds project-level configuration loaded from .shipkraft.yaml.
type ProjectConfig struct {
	LogLevel     string           `yaml:"log_level"     json:"log_level,omitempty"`
	ExcludePaths []string         `yaml:"exclude_paths" json:"exclude_paths,omitempty"`
	Limits       LimitsConfig     `yaml:"limits"        json:"limits"`
	Validation   ValidationConfig `yaml:"validation"    json:"validation"`
	Enrichment   EnrichmentConfig `yaml:"enrichment"    json:"enrichment"`
}

// LimitsConfig bounds how much source the pipeline loads for static analysis.
type LimitsConfig struct {
	MaxFiles     int `yaml:"max_files"      json:"max_files"`
	MaxFileBytes int `yaml:"max_file_bytes" json:"max_file_bytes"`
}

// ValidationConfig tunes the CI gate.
type ValidationConfig struct {
	MinScore int `yaml:"min_score" json:"min_score"`
}

// EnrichmentConfig configures the optional external generation service.
// APIKey is never read from the file, only from the environment.
type EnrichmentConfig struct {
	Enabled        bool   `yaml:"enabled"         json:"enabled"`
	Endpoint       string `yaml:"endpoint"        json:"endpoint,omitempty"`
	Model          string `yaml:"model"           json:"model,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
	APIKey         string `yaml:"-"               json:"-"`
}

// Timeout returns the generation timeout as a duration.
func (e EnrichmentConfig) Timeout() time.Duration {
	if e.TimeoutSeconds <= 0 {
		return DefaultEnrichmentTimeout * time.Second
	}
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// Usable reports whether enrichment is enabled and has the credentials it needs.
func (e EnrichmentConfig) Usable() bool {
	return e.Enabled && e.APIKey != "" && e.Endpoint != ""
}

// DefaultConfig returns the configuration used when no .shipkraft.yaml exists.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		LogLevel: "info",
		Limits: LimitsConfig{
			MaxFiles:     DefaultMaxFiles,
			MaxFileBytes: DefaultMaxFileBytes,
		},
		Validation: ValidationConfig{MinScore: PassingScore},
		Enrichment: EnrichmentConfig{
			Endpoint:       DefaultEnrichmentURL,
			Model:          DefaultEnrichmentModel,
			TimeoutSeconds: DefaultEnrichmentTimeout,
		},
	}
}

// IsExcluded reports whether path falls under one of the configured exclude prefixes.
func (c ProjectConfig) IsExcluded(path string) bool {
	for _, ex := range c.ExcludePaths {
		ex = strings.TrimSuffix(ex, "/")
		if ex == "" {
			continue
		}
		if path == ex || strings.HasPrefix(path, ex+"/") {
			return true
		}
	}
	return false
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c ProjectConfig) Validate() error {
	if c.LogLevel != "" {
		valid := false
		for _, l := range ValidLogLevels {
			if c.LogLevel == l {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel)
		}
	}

	if c.Limits.MaxFiles < 0 {
		return fmt.Errorf("limits.max_files must be >= 0 (got %d)", c.Limits.MaxFiles)
	}
	if c.Limits.MaxFileBytes < 0 {
		return fmt.Errorf("limits.max_file_bytes must be >= 0 (got %d)", c.Limits.MaxFileBytes)
	}

	if c.Validation.MinScore < 0 || c.Validation.MinScore > 100 {
		return fmt.Errorf("validation.min_score = %d (must be between 0 and 100)", c.Validation.MinScore)
	}

	if c.Enrichment.TimeoutSeconds < 0 {
		return fmt.Errorf("enrichment.timeout_seconds must be >= 0 (got %d)", c.Enrichment.TimeoutSeconds)
	}
	if c.Enrichment.Endpoint != "" &&
		!strings.HasPrefix(c.Enrichment.Endpoint, "http://") &&
		!strings.HasPrefix(c.Enrichment.Endpoint, "https://") {
		return fmt.Errorf("enrichment.endpoint %q must be an http(s) URL", c.Enrichment.Endpoint)
	}

	return nil
}
