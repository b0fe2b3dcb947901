package mcp

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/shipkraft/shipkraft/internal/adapters/outbound/config"
	"github.com/shipkraft/shipkraft/internal/adapters/outbound/enrichment"
	"github.com/shipkraft/shipkraft/internal/adapters/outbound/gitinfo"
	"github.com/shipkraft/shipkraft/internal/adapters/outbound/parser"
	"github.com/shipkraft/shipkraft/internal/adapters/outbound/source"
	"github.com/shipkraft/shipkraft/internal/application"
	"github.com/shipkraft/shipkraft/internal/domain"
)

// backend wires a fresh pipeline for every request so configuration edits are
// picked up without restarting the server.
type backend struct {
	projectPath string
	sink        domain.EventSink
}

type session struct {
	pipeline *application.PipelineService
	source   domain.RepositorySource
	opts     application.RunOptions
}

func (b *backend) open() (*session, error) {
	absPath, err := filepath.Abs(b.projectPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.New().Load(absPath)
	if err != nil {
		return nil, err
	}
	src, err := source.New(absPath)
	if err != nil {
		return nil, fmt.Errorf("opening project: %w", err)
	}

	var enricher domain.Enricher
	if cfg.Enrichment.Usable() {
		enricher = enrichment.New(cfg.Enrichment)
	}
	gen := application.NewGenerateService(enricher, application.WithGenerateEventSink(b.sink))
	pipeline := application.NewPipelineService(gen,
		application.WithEventSink(b.sink),
		application.WithParser(parser.New()),
		application.WithCommitResolver(gitinfo.New()),
	)
	return &session{
		pipeline: pipeline,
		source:   src,
		opts:     application.RunOptions{ProjectPath: absPath, Config: &cfg},
	}, nil
}

func (b *backend) analyze(ctx context.Context) (domain.StackAnalysis, error) {
	s, err := b.open()
	if err != nil {
		return domain.StackAnalysis{}, err
	}
	an, err := s.pipeline.Analyze(ctx, s.source, s.opts)
	if err != nil {
		return domain.StackAnalysis{}, err
	}
	return an.Stack, nil
}

func (b *backend) generate(ctx context.Context) (domain.GeneratedFiles, error) {
	s, err := b.open()
	if err != nil {
		return domain.GeneratedFiles{}, err
	}
	files, _, err := s.pipeline.Generate(ctx, s.source, s.opts)
	return files, err
}

func (b *backend) validate(ctx context.Context) (domain.ValidationResult, error) {
	s, err := b.open()
	if err != nil {
		return domain.ValidationResult{}, err
	}
	return s.pipeline.Validate(ctx, s.source, s.opts)
}

func (b *backend) run(ctx context.Context, fix bool) (*domain.Report, error) {
	s, err := b.open()
	if err != nil {
		return nil, err
	}
	opts := s.opts
	opts.Fix = fix
	return s.pipeline.Run(ctx, s.source, opts)
}
