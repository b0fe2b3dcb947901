package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipkraft/shipkraft/internal/domain"
)

func newFixCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "fix [path]",
		Short: "Print automatic fixes for fixable findings",
		Long:  "Run the suites, apply the fixable transforms in memory and print each fix with the file content before and after. Files on disk are never modified.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(args)
			if err != nil {
				return err
			}
			defer s.close()

			opts := s.opts
			opts.Fix = true
			report, err := s.pipeline.Run(cmd.Context(), s.source, opts)
			if err != nil {
				return fmt.Errorf("fix failed: %w", err)
			}
			fixes := report.Fixes
			if fixes == nil {
				fixes = []domain.CodeFix{}
			}
			return renderJSON(cmd, fixes)
		},
	}
}
