// Package analysis runs pattern-based static checks over a repository snapshot and
// applies deterministic fixes for a fixed set of rules.
package analysis

import (
	"fmt"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// Suite identifiers.
const (
	SuiteSyntaxID   = "syntax-check"
	SuiteLintID     = "lint-check"
	SuiteDockerID   = "docker-check"
	SuiteBuildID    = "build-check"
	SuiteSecurityID = "security-check"
)

// RuleSuiteInternal marks the synthetic error recorded when a suite crashes.
const RuleSuiteInternal = "suite-internal"

// Input is what every suite reads. Files is borrowed and never modified.
type Input struct {
	Stack     domain.StackAnalysis
	Generated domain.GeneratedFiles
	Files     domain.Snapshot
}

type suiteSpec struct {
	id   string
	name string
	typ  domain.SuiteType
	run  func(r *Runner, in Input, s *domain.TestSuite)
}

var suites = []suiteSpec{
	{SuiteSyntaxID, "Syntax Check", domain.SuiteSyntax, (*Runner).syntaxSuite},
	{SuiteLintID, "Lint Check", domain.SuiteLint, (*Runner).lintSuite},
	{SuiteDockerID, "Docker Check", domain.SuiteBuild, (*Runner).dockerSuite},
	{SuiteBuildID, "Build Check", domain.SuiteBuild, (*Runner).buildSuite},
	{SuiteSecurityID, "Security Check", domain.SuiteLint, (*Runner).securitySuite},
}

// Runner executes the analysis suites.
type Runner struct {
	parser domain.SourceParser
	sink   domain.EventSink
}

// Option configures a Runner.
type Option func(*Runner)

// WithParser sets the parser used for JS/TS (and any other supported) sources.
// Without one those files are only linted.
func WithParser(p domain.SourceParser) Option {
	return func(r *Runner) { r.parser = p }
}

// WithEventSink routes suite crashes and fix outcomes to sink.
func WithEventSink(sink domain.EventSink) Option {
	return func(r *Runner) { r.sink = domain.SinkOrNop(sink) }
}

func New(opts ...Option) *Runner {
	r := &Runner{sink: domain.NopSink{}}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run executes every suite. A crash inside one suite is recorded as an error on that
// suite and never affects the others.
func (r *Runner) Run(in Input) []domain.TestSuite {
	out := make([]domain.TestSuite, 0, len(suites))
	for _, spec := range suites {
		out = append(out, r.runSuite(spec, in))
	}
	return out
}

func (r *Runner) runSuite(spec suiteSpec, in Input) (suite domain.TestSuite) {
	suite = domain.TestSuite{
		ID:          spec.id,
		Name:        spec.name,
		Type:        spec.typ,
		Status:      domain.StatusRunning,
		Errors:      []domain.TestError{},
		Warnings:    []domain.TestWarning{},
		Suggestions: []string{},
	}

	defer func() {
		if rec := recover(); rec != nil {
			msg := fmt.Sprintf("%s crashed: %v", spec.name, rec)
			suite.Errors = append(suite.Errors, domain.TestError{
				Message:  msg,
				Severity: domain.SeverityError,
				Rule:     RuleSuiteInternal,
			})
			r.sink.Emit(domain.Event{
				Stage:   domain.StageTest,
				Kind:    domain.EventSuiteCrashed,
				Message: msg,
				Fields:  map[string]string{"suite": spec.id},
			})
		}
		suite.Finalize()
	}()

	spec.run(r, in, &suite)
	return suite
}

// suggest appends s once.
func suggest(suite *domain.TestSuite, s string) {
	for _, existing := range suite.Suggestions {
		if existing == s {
			return
		}
	}
	suite.Suggestions = append(suite.Suggestions, s)
}
