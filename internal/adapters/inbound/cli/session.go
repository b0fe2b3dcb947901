package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shipkraft/shipkraft/internal/adapters/outbound/config"
	"github.com/shipkraft/shipkraft/internal/adapters/outbound/enrichment"
	"github.com/shipkraft/shipkraft/internal/adapters/outbound/eventlog"
	"github.com/shipkraft/shipkraft/internal/adapters/outbound/gitinfo"
	"github.com/shipkraft/shipkraft/internal/adapters/outbound/gitsource"
	"github.com/shipkraft/shipkraft/internal/adapters/outbound/metrics"
	"github.com/shipkraft/shipkraft/internal/adapters/outbound/parser"
	"github.com/shipkraft/shipkraft/internal/adapters/outbound/source"
	"github.com/shipkraft/shipkraft/internal/application"
	"github.com/shipkraft/shipkraft/internal/domain"
)

// globalFlags are the persistent flags shared by every pipeline command.
type globalFlags struct {
	git     bool
	rev     string
	verbose bool
}

// session is one wired pipeline over one repository.
type session struct {
	pipeline *application.PipelineService
	source   domain.RepositorySource
	opts     application.RunOptions
	config   domain.ProjectConfig
	metrics  *metrics.Recorder
	log      *zap.Logger
}

func (g *globalFlags) open(args []string) (*session, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.New().Load(absPath)
	if err != nil {
		return nil, err
	}

	log, err := eventlog.NewZap(cfg.LogLevel, g.verbose)
	if err != nil {
		return nil, err
	}
	recorder := metrics.New()
	sink := domain.NewMultiSink(eventlog.New(log), recorder)

	var src domain.RepositorySource
	var commits domain.CommitResolver = gitinfo.New()
	if g.git {
		tree, err := gitsource.Open(absPath, g.rev)
		if err != nil {
			return nil, fmt.Errorf("opening git tree: %w", err)
		}
		src, commits = tree, tree
	} else {
		dir, err := source.New(absPath)
		if err != nil {
			return nil, fmt.Errorf("opening project: %w", err)
		}
		src = dir
	}

	// A nil *Client stored in the interface would defeat the nil check downstream.
	var enricher domain.Enricher
	if cfg.Enrichment.Usable() {
		enricher = enrichment.New(cfg.Enrichment)
	}

	gen := application.NewGenerateService(enricher, application.WithGenerateEventSink(sink))
	pipeline := application.NewPipelineService(gen,
		application.WithEventSink(sink),
		application.WithParser(parser.New()),
		application.WithCommitResolver(commits),
	)

	return &session{
		pipeline: pipeline,
		source:   src,
		opts:     application.RunOptions{ProjectPath: absPath, Config: &cfg},
		config:   cfg,
		metrics:  recorder,
		log:      log,
	}, nil
}

func (s *session) close() {
	_ = s.log.Sync()
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
