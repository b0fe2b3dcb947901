package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shipkraft/shipkraft/internal/domain"
	"gopkg.in/yaml.v3"
)

const fileName = ".shipkraft.yaml"

// Environment variables that override the file.
const (
	EnvAPIKey   = "SHIPKRAFT_ENRICHMENT_API_KEY"
	EnvEndpoint = "SHIPKRAFT_ENRICHMENT_ENDPOINT"
	EnvModel    = "SHIPKRAFT_ENRICHMENT_MODEL"
)

// YAMLLoader implements domain.ConfigLoader by reading .shipkraft.yaml.
type YAMLLoader struct {
	lookupEnv func(string) (string, bool)
}

// New creates a YAMLLoader reading overrides from the process environment.
func New() *YAMLLoader { return &YAMLLoader{lookupEnv: os.LookupEnv} }

// Load reads .shipkraft.yaml from projectPath on top of the defaults, then applies
// environment overrides. A missing file yields the defaults.
func (l *YAMLLoader) Load(projectPath string) (domain.ProjectConfig, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(filepath.Join(projectPath, fileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return domain.ProjectConfig{}, fmt.Errorf("reading %s: %w", fileName, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
		}
	}

	l.applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}
	return cfg, nil
}

func (l *YAMLLoader) applyEnv(cfg *domain.ProjectConfig) {
	if v, ok := l.lookupEnv(EnvAPIKey); ok {
		cfg.Enrichment.APIKey = v
	}
	if v, ok := l.lookupEnv(EnvEndpoint); ok && v != "" {
		cfg.Enrichment.Endpoint = v
	}
	if v, ok := l.lookupEnv(EnvModel); ok && v != "" {
		cfg.Enrichment.Model = v
	}
}
