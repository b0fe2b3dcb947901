package parser

import (
	"github.com/evanw/esbuild/pkg/api"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// Plain .js files are parsed as JSX since React projects routinely use it there.
var jsLoaders = map[string]api.Loader{
	".js":  api.LoaderJSX,
	".jsx": api.LoaderJSX,
	".mjs": api.LoaderJSX,
	".cjs": api.LoaderJSX,
	".ts":  api.LoaderTS,
	".mts": api.LoaderTS,
	".cts": api.LoaderTS,
	".tsx": api.LoaderTSX,
}

func parseJS(filePath, content string, loader api.Loader) []domain.SyntaxIssue {
	result := api.Transform(content, api.TransformOptions{
		Loader:     loader,
		Sourcefile: filePath,
		LogLevel:   api.LogLevelSilent,
	})

	issues := make([]domain.SyntaxIssue, 0, len(result.Errors))
	for _, msg := range result.Errors {
		issue := domain.SyntaxIssue{Message: msg.Text}
		if loc := msg.Location; loc != nil {
			issue.Line = loc.Line
			issue.Column = loc.Column + 1
		}
		issues = append(issues, issue)
	}
	return issues
}
