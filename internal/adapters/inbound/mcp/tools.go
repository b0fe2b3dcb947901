package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// registerTools registers all shipkraft MCP tools on the given server.
func registerTools(s *server.MCPServer, b *backend) {
	s.AddTool(
		mcplib.NewTool("shipkraft_analyze",
			mcplib.WithDescription("Returns the inferred technology stack of the project as JSON"),
		),
		handleAnalyze(b),
	)

	s.AddTool(
		mcplib.NewTool("shipkraft_generate",
			mcplib.WithDescription("Returns the generated Dockerfile, compose file, .dockerignore and README. Nothing is written to disk."),
			mcplib.WithString("artifact",
				mcplib.Description("Return a single artifact as plain text: dockerfile, compose, dockerignore or readme"),
			),
		),
		handleGenerate(b),
	)

	s.AddTool(
		mcplib.NewTool("shipkraft_validate",
			mcplib.WithDescription("Scores the repository's health and returns every check with recommendations"),
		),
		handleValidate(b),
	)

	s.AddTool(
		mcplib.NewTool("shipkraft_test",
			mcplib.WithDescription("Runs the static analysis suites and returns their errors and warnings"),
		),
		handleTest(b),
	)

	s.AddTool(
		mcplib.NewTool("shipkraft_fix",
			mcplib.WithDescription("Applies automatic fixes in memory and returns each fix with the file content before and after"),
		),
		handleFix(b),
	)

	s.AddTool(
		mcplib.NewTool("shipkraft_report",
			mcplib.WithDescription("Runs the whole pipeline and returns the full report"),
			mcplib.WithBoolean("fix", mcplib.Description("Apply automatic fixes and re-run the suites")),
		),
		handleReport(b),
	)
}

func handleAnalyze(b *backend) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		stack, err := b.analyze(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil
		}
		return jsonResult(stack)
	}
}

func handleGenerate(b *backend) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		name, _ := request.GetArguments()["artifact"].(string)

		files, err := b.generate(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("generation failed: %v", err)), nil
		}
		if name == "" {
			return jsonResult(files)
		}
		content, ok := artifact(files, name)
		if !ok {
			return errorResult(fmt.Sprintf("unknown artifact %q (valid: dockerfile, compose, dockerignore, readme)", name)), nil
		}
		return textResult(content), nil
	}
}

func handleValidate(b *backend) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		result, err := b.validate(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}
		return jsonResult(result)
	}
}

func handleTest(b *backend) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		report, err := b.run(ctx, false)
		if err != nil {
			return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil
		}
		return jsonResult(report.Suites)
	}
}

func handleFix(b *backend) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		report, err := b.run(ctx, true)
		if err != nil {
			return errorResult(fmt.Sprintf("fix failed: %v", err)), nil
		}
		fixes := report.Fixes
		if fixes == nil {
			fixes = []domain.CodeFix{}
		}
		return jsonResult(fixes)
	}
}

func handleReport(b *backend) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		fix, _ := request.GetArguments()["fix"].(bool)
		report, err := b.run(ctx, fix)
		if err != nil {
			return errorResult(fmt.Sprintf("pipeline failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func artifact(files domain.GeneratedFiles, name string) (string, bool) {
	switch name {
	case "dockerfile":
		return files.Dockerfile, true
	case "compose":
		return files.DockerCompose, true
	case "dockerignore":
		return files.Dockerignore, true
	case "readme":
		return files.Readme, true
	}
	return "", false
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
