package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerResources registers all shipkraft MCP resources on the given server.
func registerResources(s *server.MCPServer, b *backend) {
	// 1. shipkraft://stack - inferred stack
	s.AddResource(
		mcplib.NewResource(
			"shipkraft://stack",
			"Stack",
			mcplib.WithResourceDescription("Technology stack inferred from the repository"),
			mcplib.WithMIMEType("application/json"),
		),
		handleStackResource(b),
	)

	// 2. shipkraft://dockerfile - generated Dockerfile
	s.AddResource(
		mcplib.NewResource(
			"shipkraft://dockerfile",
			"Dockerfile",
			mcplib.WithResourceDescription("Dockerfile generated for the repository"),
			mcplib.WithMIMEType("text/plain"),
		),
		handleArtifactResource(b, "dockerfile"),
	)

	// 3. shipkraft://compose - generated compose file
	s.AddResource(
		mcplib.NewResource(
			"shipkraft://compose",
			"Compose file",
			mcplib.WithResourceDescription("docker-compose.yml generated for the repository"),
			mcplib.WithMIMEType("application/yaml"),
		),
		handleArtifactResource(b, "compose"),
	)

	// 4. shipkraft://artifacts/{name} - any generated artifact (resource template)
	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"shipkraft://artifacts/{name}",
			"Artifact",
			mcplib.WithTemplateDescription("A generated artifact: dockerfile, compose, dockerignore or readme"),
			mcplib.WithTemplateMIMEType("text/plain"),
		),
		handleArtifactTemplate(b),
	)
}

func handleStackResource(b *backend) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		stack, err := b.analyze(ctx)
		if err != nil {
			return nil, fmt.Errorf("analysis failed: %w", err)
		}

		data, err := json.MarshalIndent(stack, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling stack: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "shipkraft://stack",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

func handleArtifactResource(b *backend, name string) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		return readArtifact(ctx, b, request.Params.URI, name)
	}
}

func handleArtifactTemplate(b *backend) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		name, ok := templateArg(request.Params.Arguments["name"])
		if !ok || name == "" {
			return nil, fmt.Errorf("artifact name is required")
		}
		return readArtifact(ctx, b, request.Params.URI, name)
	}
}

func readArtifact(ctx context.Context, b *backend, uri, name string) ([]mcplib.ResourceContents, error) {
	files, err := b.generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}
	content, ok := artifact(files, name)
	if !ok {
		return nil, fmt.Errorf("unknown artifact %q", name)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     content,
		},
	}, nil
}

// templateArg unwraps a URI template argument, which the server may hand over as a
// string or as a single-element list.
func templateArg(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []string:
		if len(t) == 1 {
			return t[0], true
		}
	}
	return "", false
}
