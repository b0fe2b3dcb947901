package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipkraft/shipkraft/internal/adapters/outbound/tui"
)

func newValidateCmd(g *globalFlags) *cobra.Command {
	var (
		jsonOutput bool
		ciMode     bool
		minScore   int
	)

	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Score the repository's health",
		Long:  "Run the weighted structure, dependency, configuration, security and performance checks.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(args)
			if err != nil {
				return err
			}
			defer s.close()

			result, err := s.pipeline.Validate(cmd.Context(), s.source, s.opts)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			if jsonOutput {
				if err := renderJSON(cmd, result); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderValidation(result))
			}

			if !cmd.Flags().Changed("min") {
				minScore = s.config.Validation.MinScore
			}
			if ciMode && result.Score < minScore {
				return fmt.Errorf("score %d is below minimum %d", result.Score, minScore)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result as JSON")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 if below --min")
	cmd.Flags().IntVar(&minScore, "min", 0, "Minimum score for CI mode (defaults to validation.min_score)")
	return cmd
}
