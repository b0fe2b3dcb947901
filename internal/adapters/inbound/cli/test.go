package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipkraft/shipkraft/internal/adapters/outbound/tui"
)

func newTestCmd(g *globalFlags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "test [path]",
		Short: "Run the static analysis suites",
		Long:  "Run the syntax, lint, docker, build and security suites over the repository and its generated artifacts.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(args)
			if err != nil {
				return err
			}
			defer s.close()

			report, err := s.pipeline.Run(cmd.Context(), s.source, s.opts)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}
			if jsonOutput {
				return renderJSON(cmd, report.Suites)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderSuites("Static analysis", report.Suites))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the suites as JSON")
	return cmd
}
