package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipkraft/shipkraft/internal/adapters/outbound/tui"
)

func newReportCmd(g *globalFlags) *cobra.Command {
	var (
		jsonOutput  bool
		fix         bool
		showMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "report [path]",
		Short: "Run the whole pipeline and print the report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(args)
			if err != nil {
				return err
			}
			defer s.close()

			opts := s.opts
			opts.Fix = fix
			report, err := s.pipeline.Run(cmd.Context(), s.source, opts)
			if err != nil {
				return fmt.Errorf("pipeline failed: %w", err)
			}

			if jsonOutput {
				if err := renderJSON(cmd, report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(report))
			}

			if showMetrics {
				return s.metrics.WriteText(cmd.ErrOrStderr())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")
	cmd.Flags().BoolVar(&fix, "fix", false, "Apply automatic fixes in memory and re-run the suites")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Write pipeline counters in Prometheus text format to stderr")
	return cmd
}
