package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:   "shipkraft",
		Short: "Analyze a repository and produce its container artifacts",
		Long: "Shipkraft infers the technology stack of a repository, generates a Dockerfile, compose file,\n" +
			".dockerignore and README, scores the repository's health and runs static checks with in-memory auto-fix.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVar(&g.git, "git", false, "Read the committed tree instead of the working directory")
	cmd.PersistentFlags().StringVar(&g.rev, "rev", "HEAD", "Revision to read with --git")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log every pipeline event to stderr")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newAnalyzeCmd(g))
	cmd.AddCommand(newGenerateCmd(g))
	cmd.AddCommand(newValidateCmd(g))
	cmd.AddCommand(newTestCmd(g))
	cmd.AddCommand(newFixCmd(g))
	cmd.AddCommand(newReportCmd(g))
	cmd.AddCommand(newMCPCmd(g))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// ExecuteContext runs the root command with ctx, which is cancelled on interrupt by main.
func ExecuteContext(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
