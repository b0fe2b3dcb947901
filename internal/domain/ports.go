package domain

import "context"

// RepositorySource lists and fetches repository content. Retry, backoff and rate-limit
// handling live entirely behind this interface.
type RepositorySource interface {
	ListFiles(ctx context.Context) ([]FileEntry, error)
	GetContent(ctx context.Context, path string) ([]byte, error)
}

// Enricher is the optional external generation service. The response is expected to be
// JSON; anything else is treated as a soft failure by the caller.
type Enricher interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SyntaxIssue is a parse error reported by a SourceParser.
type SyntaxIssue struct {
	Line    int
	Column  int
	Message string
}

// SourceParser parses source files with a real parser.
type SourceParser interface {
	// Supports reports whether the parser understands the file at path.
	Supports(path string) bool
	Parse(path, content string) []SyntaxIssue
}

// ConfigLoader loads project configuration.
type ConfigLoader interface {
	Load(projectPath string) (ProjectConfig, error)
}

// CommitResolver resolves the current commit of a project, when it is a git repository.
type CommitResolver interface {
	CommitHash(projectPath string) (string, error)
}
