package domain_test

import (
	"testing"
	"time"

	"github.com/shipkraft/shipkraft/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 200, cfg.Limits.MaxFiles)
	assert.Equal(t, 262144, cfg.Limits.MaxFileBytes)
	assert.Equal(t, 70, cfg.Validation.MinScore)
	assert.False(t, cfg.Enrichment.Enabled)
	assert.Equal(t, 45*time.Second, cfg.Enrichment.Timeout())
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.ProjectConfig)
		wantErr string
	}{
		{"bad log level", func(c *domain.ProjectConfig) { c.LogLevel = "loud" }, "unknown log_level"},
		{"negative max files", func(c *domain.ProjectConfig) { c.Limits.MaxFiles = -1 }, "limits.max_files"},
		{"negative max bytes", func(c *domain.ProjectConfig) { c.Limits.MaxFileBytes = -5 }, "limits.max_file_bytes"},
		{"min score too high", func(c *domain.ProjectConfig) { c.Validation.MinScore = 101 }, "validation.min_score"},
		{"negative timeout", func(c *domain.ProjectConfig) { c.Enrichment.TimeoutSeconds = -1 }, "timeout_seconds"},
		{"bad endpoint", func(c *domain.ProjectConfig) { c.Enrichment.Endpoint = "ftp://x" }, "enrichment.endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_IsExcluded(t *testing.T) {
	cfg := domain.ProjectConfig{ExcludePaths: []string{"dist/", "gen", ""}}
	assert.True(t, cfg.IsExcluded("dist/app.js"))
	assert.True(t, cfg.IsExcluded("gen"))
	assert.False(t, cfg.IsExcluded("generated/x.go"))
	assert.False(t, cfg.IsExcluded("src/dist.js"))
}

func TestEnrichmentConfig_Usable(t *testing.T) {
	e := domain.DefaultConfig().Enrichment
	assert.False(t, e.Usable())
	e.Enabled = true
	assert.False(t, e.Usable(), "no api key")
	e.APIKey = "sk-test"
	assert.True(t, e.Usable())
	e.TimeoutSeconds = 0
	assert.Equal(t, 45*time.Second, e.Timeout())
}
