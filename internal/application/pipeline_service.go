package application

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/shipkraft/shipkraft/internal/domain"
	"github.com/shipkraft/shipkraft/internal/domain/analysis"
	"github.com/shipkraft/shipkraft/internal/domain/stack"
	"github.com/shipkraft/shipkraft/internal/domain/validation"
)

// PipelineService orchestrates a full run:
// list → fetch manifests → analyze → (generate ∥ validate) → load sources → test → fix.
type PipelineService struct {
	configLoader domain.ConfigLoader
	commits      domain.CommitResolver
	generator    *GenerateService
	parser       domain.SourceParser
	sink         domain.EventSink
	now          func() time.Time
}

// PipelineOption configures a PipelineService.
type PipelineOption func(*PipelineService)

// WithEventSink routes events from every stage to sink.
func WithEventSink(sink domain.EventSink) PipelineOption {
	return func(s *PipelineService) { s.sink = domain.SinkOrNop(sink) }
}

// WithParser sets the source parser used by the syntax suite.
func WithParser(p domain.SourceParser) PipelineOption {
	return func(s *PipelineService) { s.parser = p }
}

// WithCommitResolver attaches the commit hash of the project to reports.
func WithCommitResolver(c domain.CommitResolver) PipelineOption {
	return func(s *PipelineService) { s.commits = c }
}

// WithConfigLoader loads the project configuration for runs whose RunOptions
// carry no Config. Without a loader such runs use domain.DefaultConfig.
func WithConfigLoader(l domain.ConfigLoader) PipelineOption {
	return func(s *PipelineService) { s.configLoader = l }
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) PipelineOption {
	return func(s *PipelineService) { s.now = now }
}

func NewPipelineService(generator *GenerateService, opts ...PipelineOption) *PipelineService {
	s := &PipelineService{
		generator: generator,
		sink:      domain.NopSink{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.generator == nil {
		s.generator = NewGenerateService(nil, WithGenerateEventSink(s.sink))
	}
	return s
}

// RunOptions selects what a run does. When Config is nil it is loaded from
// ProjectPath through the configured loader.
type RunOptions struct {
	ProjectPath string
	Config      *domain.ProjectConfig
	Fix         bool
}

// Analyzed is the outcome of the analysis stage.
type Analyzed struct {
	Config   domain.ProjectConfig
	Files    []domain.FileEntry
	Contents map[string]string
	Stack    domain.StackAnalysis
}

// Analyze lists the repository, fetches the root manifests one at a time and infers the
// stack. Only a failed listing or an unreadable config is an error.
func (s *PipelineService) Analyze(ctx context.Context, src domain.RepositorySource, opts RunOptions) (*Analyzed, error) {
	cfg, err := s.config(opts)
	if err != nil {
		return nil, err
	}

	s.emit(domain.StageSource, domain.EventStarted, "listing files", nil)
	listed, err := src.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	var files []domain.FileEntry
	for _, f := range listed {
		if !cfg.IsExcluded(f.Path) {
			files = append(files, f)
		}
	}

	contents := map[string]string{}
	for _, f := range files {
		if f.Kind == domain.KindDir || isLockfile(f.Path) || !(stack.IsManifest(f.Path) || f.Path == ".gitignore") {
			continue
		}
		if content, ok := s.fetch(ctx, src, f.Path, cfg.Limits.MaxFileBytes); ok {
			contents[f.Path] = content
		}
	}

	manifests := map[string]string{}
	for p, c := range contents {
		if stack.IsManifest(p) {
			manifests[p] = c
		}
	}

	s.emit(domain.StageAnalyze, domain.EventStarted, "inferring stack", nil)
	a := stack.New(stack.WithEventSink(s.sink)).Analyze(files, manifests)
	s.emit(domain.StageAnalyze, domain.EventCompleted, "stack inferred", map[string]string{
		"language":  a.PrimaryLanguage,
		"framework": a.Framework,
	})

	return &Analyzed{Config: cfg, Files: files, Contents: contents, Stack: a}, nil
}

// Generate analyzes the repository and produces its bundle.
func (s *PipelineService) Generate(ctx context.Context, src domain.RepositorySource, opts RunOptions) (domain.GeneratedFiles, bool, error) {
	an, err := s.Analyze(ctx, src, opts)
	if err != nil {
		return domain.GeneratedFiles{}, false, err
	}
	files, used := s.generator.Generate(ctx, an.Stack, an.Config.Enrichment)
	return files, used, nil
}

// Validate analyzes the repository and scores its health.
func (s *PipelineService) Validate(ctx context.Context, src domain.RepositorySource, opts RunOptions) (domain.ValidationResult, error) {
	an, err := s.Analyze(ctx, src, opts)
	if err != nil {
		return domain.ValidationResult{}, err
	}
	return validation.Validate(validation.Input{Files: an.Files, Stack: an.Stack, Contents: an.Contents}), nil
}

// Run executes the whole pipeline and assembles a report.
func (s *PipelineService) Run(ctx context.Context, src domain.RepositorySource, opts RunOptions) (*domain.Report, error) {
	an, err := s.Analyze(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	cfg := an.Config

	// Validation is CPU-only and shares no data with generation.
	var (
		generated      domain.GeneratedFiles
		enrichmentUsed bool
		result         domain.ValidationResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.emit(domain.StageGenerate, domain.EventStarted, "generating bundle", nil)
		generated, enrichmentUsed = s.generator.Generate(gctx, an.Stack, cfg.Enrichment)
		return nil
	})
	g.Go(func() error {
		s.emit(domain.StageValidate, domain.EventStarted, "validating repository", nil)
		result = validation.Validate(validation.Input{Files: an.Files, Stack: an.Stack, Contents: an.Contents})
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.emit(domain.StageValidate, domain.EventCompleted, "validation finished", map[string]string{
		"score": fmt.Sprint(result.Score),
	})

	snap := s.loadSources(ctx, src, an, cfg)

	runner := analysis.New(analysis.WithParser(s.parser), analysis.WithEventSink(s.sink))
	in := analysis.Input{Stack: an.Stack, Generated: generated, Files: snap}
	s.emit(domain.StageTest, domain.EventStarted, "running suites", map[string]string{"files": fmt.Sprint(snap.Len())})
	suites := runner.Run(in)

	report := &domain.Report{
		RunID:          uuid.NewString(),
		Timestamp:      s.now().UTC(),
		Files:          len(an.Files),
		Stack:          an.Stack,
		Generated:      generated,
		EnrichmentUsed: enrichmentUsed,
		Validation:     result,
		Suites:         suites,
	}

	if opts.Fix {
		fixes, fixed := runner.Fix(domain.FixableErrors(suites), snap)
		report.Fixes = fixes
		in.Files = fixed
		report.SuitesAfterFix = runner.Run(in)
	}

	if s.commits != nil && opts.ProjectPath != "" {
		if hash, err := s.commits.CommitHash(opts.ProjectPath); err == nil {
			report.CommitHash = hash
		}
	}
	return report, nil
}

func (s *PipelineService) config(opts RunOptions) (domain.ProjectConfig, error) {
	if opts.Config != nil {
		return *opts.Config, nil
	}
	if s.configLoader == nil {
		return domain.DefaultConfig(), nil
	}
	cfg, err := s.configLoader.Load(opts.ProjectPath)
	if err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// loadSources fetches, one at a time, the files the suites inspect, bounded by the
// configured file count and size. Manifests already fetched are reused.
func (s *PipelineService) loadSources(ctx context.Context, src domain.RepositorySource, an *Analyzed, cfg domain.ProjectConfig) domain.Snapshot {
	var candidates []string
	for _, f := range an.Files {
		if f.Kind != domain.KindDir && !isLockfile(f.Path) && isAnalyzable(f.Path) {
			candidates = append(candidates, f.Path)
		}
	}
	sort.Strings(candidates)

	files := map[string]string{}
	for _, p := range candidates {
		if cfg.Limits.MaxFiles > 0 && len(files) >= cfg.Limits.MaxFiles {
			break
		}
		if c, ok := an.Contents[p]; ok {
			files[p] = c
			continue
		}
		if c, ok := s.fetch(ctx, src, p, cfg.Limits.MaxFileBytes); ok {
			files[p] = c
		}
	}
	return domain.NewSnapshot(files)
}

func (s *PipelineService) fetch(ctx context.Context, src domain.RepositorySource, p string, maxBytes int) (string, bool) {
	b, err := src.GetContent(ctx, p)
	if err != nil {
		s.emit(domain.StageSource, domain.EventFetchFailed, err.Error(), map[string]string{"file": p})
		return "", false
	}
	if maxBytes > 0 && len(b) > maxBytes {
		s.emit(domain.StageSource, domain.EventFetchFailed, "file exceeds size limit", map[string]string{
			"file":  p,
			"bytes": fmt.Sprint(len(b)),
		})
		return "", false
	}
	return string(b), true
}

func (s *PipelineService) emit(stage, kind, msg string, fields map[string]string) {
	s.sink.Emit(domain.Event{Stage: stage, Kind: kind, Message: msg, Fields: fields})
}

// isAnalyzable reports whether a path is a file some suite reads.
func isAnalyzable(p string) bool {
	base := path.Base(p)
	switch {
	case base == "Dockerfile" || strings.HasPrefix(base, "Dockerfile."):
		return true
	case base == "docker-compose.yml" || base == "docker-compose.yaml" || base == "compose.yml" || base == "compose.yaml":
		return true
	}
	switch stack.LanguageOf(p) {
	case "", "markdown", "yaml", "text":
		return false
	}
	return true
}

// isLockfile reports whether p is a generated lockfile. Only its presence matters.
func isLockfile(p string) bool {
	base := path.Base(p)
	return base == "go.sum" ||
		strings.HasSuffix(base, ".lock") ||
		strings.HasSuffix(base, ".lockb") ||
		strings.HasSuffix(base, "-lock.json") ||
		strings.HasSuffix(base, "-lock.yaml")
}
