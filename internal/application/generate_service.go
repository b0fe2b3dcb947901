package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/shipkraft/shipkraft/internal/domain"
	"github.com/shipkraft/shipkraft/internal/domain/docker"
)

// GenerateService produces the containerization bundle: the deterministic generator
// always runs, and the enrichment service may replace its output.
type GenerateService struct {
	enricher domain.Enricher
	sink     domain.EventSink
	validate *validator.Validate
}

// GenerateOption configures a GenerateService.
type GenerateOption func(*GenerateService)

// WithGenerateEventSink routes enrichment outcomes to sink.
func WithGenerateEventSink(sink domain.EventSink) GenerateOption {
	return func(s *GenerateService) { s.sink = domain.SinkOrNop(sink) }
}

// NewGenerateService creates a GenerateService. enricher may be nil.
func NewGenerateService(enricher domain.Enricher, opts ...GenerateOption) *GenerateService {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("dockerfile", func(fl validator.FieldLevel) bool {
		return startsWithFrom(fl.Field().String())
	})
	s := &GenerateService{enricher: enricher, sink: domain.NopSink{}, validate: v}
	for _, o := range opts {
		o(s)
	}
	return s
}

// availabilityProber is implemented by enrichers that can cheaply check reachability
// before a full generation call.
type availabilityProber interface {
	Available(ctx context.Context) bool
}

// enrichedBundle is the JSON shape the enrichment service must answer with.
type enrichedBundle struct {
	Dockerfile              string   `json:"dockerfile"               validate:"required,dockerfile"`
	DockerCompose           string   `json:"docker_compose"`
	Dockerignore            string   `json:"dockerignore"             validate:"required"`
	Readme                  string   `json:"readme"                   validate:"required"`
	HealthCheck             string   `json:"health_check"`
	SecurityRecommendations []string `json:"security_recommendations"`
	Optimizations           []string `json:"optimizations"`
	EstimatedSize           string   `json:"estimated_size"`
	BuildTime               string   `json:"build_time"`
}

// Generate returns the bundle for a and whether enrichment produced it. Enrichment
// failures never surface as errors: the deterministic bundle is returned instead.
func (s *GenerateService) Generate(ctx context.Context, a domain.StackAnalysis, cfg domain.EnrichmentConfig) (domain.GeneratedFiles, bool) {
	base := docker.Generate(a)
	if !cfg.Enabled {
		return base, false
	}
	if s.enricher == nil {
		s.unavailable("no enrichment service configured")
		return base, false
	}

	if p, ok := s.enricher.(availabilityProber); ok && !p.Available(ctx) {
		s.unavailable("enrichment service is not reachable")
		return base, false
	}

	prompt, err := buildPrompt(a, base)
	if err != nil {
		s.unavailable(fmt.Sprintf("building prompt: %v", err))
		return base, false
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	raw, err := s.enricher.Generate(ctx, prompt)
	if err != nil {
		s.unavailable(fmt.Sprintf("calling enrichment service: %v", err))
		return base, false
	}

	var bundle enrichedBundle
	if err := json.Unmarshal([]byte(stripFences(raw)), &bundle); err != nil {
		s.unavailable(fmt.Sprintf("decoding enrichment response: %v", err))
		return base, false
	}
	if err := s.validate.Struct(bundle); err != nil {
		s.unavailable(fmt.Sprintf("invalid enrichment response: %v", err))
		return base, false
	}

	out := domain.GeneratedFiles{
		Dockerfile:              bundle.Dockerfile,
		DockerCompose:           bundle.DockerCompose,
		Dockerignore:            bundle.Dockerignore,
		Readme:                  bundle.Readme,
		HealthCheck:             bundle.HealthCheck,
		SecurityRecommendations: bundle.SecurityRecommendations,
		Optimizations:           bundle.Optimizations,
		EstimatedSize:           bundle.EstimatedSize,
		BuildTime:               bundle.BuildTime,
	}
	if out.DockerCompose == "" {
		out.DockerCompose = base.DockerCompose
	}
	s.sink.Emit(domain.Event{
		Stage:   domain.StageGenerate,
		Kind:    domain.EventEnrichmentUsed,
		Message: "bundle produced by enrichment service",
	})
	return out, true
}

func (s *GenerateService) unavailable(msg string) {
	s.sink.Emit(domain.Event{
		Stage:   domain.StageGenerate,
		Kind:    domain.EventEnrichmentUnavailable,
		Message: msg,
	})
}

type promptPayload struct {
	Task         string                `json:"task"`
	Requirements []string              `json:"requirements"`
	Stack        domain.StackAnalysis  `json:"stack"`
	Baseline     domain.GeneratedFiles `json:"baseline"`
	Response     map[string]string     `json:"response_format"`
}

func buildPrompt(a domain.StackAnalysis, base domain.GeneratedFiles) (string, error) {
	payload := promptPayload{
		Task: "Produce production-ready container artifacts for the repository described by stack.",
		Requirements: []string{
			"Use a multi-stage build when the language compiles or bundles",
			"Run the application as a non-root user",
			"Keep the exposed port and start command of the baseline unless they are wrong",
			"Answer with a single JSON object and nothing else",
		},
		Stack:    a,
		Baseline: base,
		Response: map[string]string{
			"dockerfile":               "string, required, must start with FROM or ARG",
			"docker_compose":           "string, optional",
			"dockerignore":             "string, required",
			"readme":                   "string, required",
			"health_check":             "string, optional",
			"security_recommendations": "array of strings, optional",
			"optimizations":            "array of strings, optional",
			"estimated_size":           "string, optional",
			"build_time":               "string, optional",
		},
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

// startsWithFrom reports whether the first instruction of a Dockerfile is FROM or ARG.
func startsWithFrom(dockerfile string) bool {
	for _, line := range strings.Split(dockerfile, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word := strings.ToUpper(strings.Fields(line)[0])
		return word == "FROM" || word == "ARG"
	}
	return false
}
