package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// Option configures the MCP server.
type Option func(*options)

type options struct {
	sink domain.EventSink
}

// WithEventSink routes pipeline events of every tool call to sink.
func WithEventSink(sink domain.EventSink) Option {
	return func(o *options) { o.sink = sink }
}

// NewShipkraftMCPServer creates a new MCP server with all shipkraft tools and
// resources registered. The projectPath is the root directory of the repository
// to analyze.
func NewShipkraftMCPServer(projectPath string, opts ...Option) *server.MCPServer {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	s := server.NewMCPServer(
		"shipkraft",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	b := &backend{projectPath: projectPath, sink: domain.SinkOrNop(o.sink)}
	registerTools(s, b)
	registerResources(s, b)

	return s
}
