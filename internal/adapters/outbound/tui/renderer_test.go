package tui_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shipkraft/shipkraft/internal/adapters/outbound/tui"
	"github.com/shipkraft/shipkraft/internal/domain"
)

func sampleValidation() domain.ValidationResult {
	return domain.ValidationResult{
		IsValid: false,
		Score:   64,
		Checks: []domain.ValidationCheck{
			{Name: "README present", Status: domain.CheckPass, Category: domain.CheckStructure, Message: "README.md found"},
			{Name: "Lockfile present", Status: domain.CheckFail, Category: domain.CheckDependencies, Message: "no lockfile for npm"},
			{Name: ".env ignored", Status: domain.CheckWarning, Category: domain.CheckSecurity, Message: ".env is not in .gitignore"},
			{Name: "Bundle size", Status: domain.CheckInfo, Category: domain.CheckPerformance, Message: "12 dependencies"},
		},
		Recommendations: []string{"Commit a lockfile", "Add .env to .gitignore"},
		DockerValidation: &domain.DockerValidation{
			EstimatedSizeMB:       180,
			EstimatedBuildSeconds: 42,
			SecurityIssues:        []string{"container runs as root"},
			Optimizations:         []string{"use npm ci"},
		},
	}
}

func TestRenderValidation_ScoreAndGrade(t *testing.T) {
	output := tui.RenderValidation(sampleValidation())
	assert.Contains(t, output, "64 / 100")
	assert.Contains(t, output, "D")
	assert.Contains(t, output, "not ready")
}

func TestRenderValidation_ChecksGroupedByCategory(t *testing.T) {
	output := tui.RenderValidation(sampleValidation())
	structure := strings.Index(output, domain.CheckStructure)
	deps := strings.Index(output, domain.CheckDependencies)
	security := strings.Index(output, domain.CheckSecurity)
	assert.True(t, structure >= 0 && structure < deps && deps < security)
	assert.Contains(t, output, "Lockfile present")
	assert.Contains(t, output, "no lockfile for npm")
}

func TestRenderValidation_StatusIndicators(t *testing.T) {
	output := tui.RenderValidation(sampleValidation())
	assert.Contains(t, output, "●")
	assert.Contains(t, output, "○", "informational checks use the hollow marker")
}

func TestRenderValidation_RecommendationsAndContainer(t *testing.T) {
	output := tui.RenderValidation(sampleValidation())
	assert.Contains(t, output, "Recommendations")
	assert.Contains(t, output, "Commit a lockfile")
	assert.Contains(t, output, "~180 MB")
	assert.Contains(t, output, "container runs as root")
	assert.Contains(t, output, "use npm ci")
}

func TestRenderValidation_NoRecommendations(t *testing.T) {
	output := tui.RenderValidation(domain.ValidationResult{IsValid: true, Score: 95})
	assert.Contains(t, output, "No recommendations.")
	assert.Contains(t, output, "ready")
}

func TestGrade(t *testing.T) {
	cases := map[int]string{100: "A", 90: "A", 85: "B", 70: "C", 60: "D", 59: "F", 0: "F"}
	for score, want := range cases {
		assert.Equal(t, want, tui.Grade(score), "score %d", score)
	}
}

func TestRenderStack(t *testing.T) {
	a := domain.NewStackAnalysis()
	a.PrimaryLanguage = "typescript"
	a.Framework = "Next.js"
	a.PackageManager = "pnpm"
	a.Database = []string{domain.DatabasePostgres, domain.DatabaseRedis}
	a.Scripts = map[string]string{"start": "next start", "build": "next build"}

	output := tui.RenderStack(a)
	assert.Contains(t, output, "typescript")
	assert.Contains(t, output, "Next.js")
	assert.Contains(t, output, "postgresql, redis")
	assert.Contains(t, output, "0 runtime, 0 dev")
	assert.Less(t, strings.Index(output, "next build"), strings.Index(output, "next start"), "scripts are sorted by name")
}
