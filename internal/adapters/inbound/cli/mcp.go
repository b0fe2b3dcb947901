package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/shipkraft/shipkraft/internal/adapters/inbound/mcp"
	"github.com/shipkraft/shipkraft/internal/adapters/outbound/eventlog"
)

func newMCPCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the shipkraft MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(g))
	return cmd
}

func newMCPServeCmd(g *globalFlags) *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start shipkraft MCP server (stdio)",
		Long:  "Start the shipkraft MCP server using stdio transport. This lets AI coding assistants analyze the project, generate its container artifacts and run the checks.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectPath == "" {
				projectPath = "."
			}
			log, err := eventlog.NewZap("warn", g.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			s := mcpadapter.NewShipkraftMCPServer(projectPath, mcpadapter.WithEventSink(eventlog.New(log)))
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", "", "Project path (defaults to current working directory)")
	return cmd
}
