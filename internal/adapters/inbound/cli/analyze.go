package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipkraft/shipkraft/internal/adapters/outbound/tui"
)

func newAnalyzeCmd(g *globalFlags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Infer the technology stack of a repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(args)
			if err != nil {
				return err
			}
			defer s.close()

			an, err := s.pipeline.Analyze(cmd.Context(), s.source, s.opts)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}
			if jsonOutput {
				return renderJSON(cmd, an.Stack)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderStack(an.Stack))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the stack as JSON")
	return cmd
}
