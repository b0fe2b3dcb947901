package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shipkraft/shipkraft/internal/domain"
)

// artifacts lists the generated files in print order.
var artifacts = []string{"dockerfile", "compose", "dockerignore", "readme"}

func artifact(files domain.GeneratedFiles, name string) (title, content string) {
	switch name {
	case "dockerfile":
		return "Dockerfile", files.Dockerfile
	case "compose":
		return "docker-compose.yml", files.DockerCompose
	case "dockerignore":
		return ".dockerignore", files.Dockerignore
	default:
		return "README.md", files.Readme
	}
}

func newGenerateCmd(g *globalFlags) *cobra.Command {
	var (
		only       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "generate [path]",
		Short: "Print the generated container artifacts",
		Long:  "Generate a Dockerfile, compose file, .dockerignore and README for the repository. Nothing is written to disk.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if only != "" && !contains(artifacts, only) {
				return fmt.Errorf("unknown artifact %q (valid: %s)", only, strings.Join(artifacts, ", "))
			}

			s, err := g.open(args)
			if err != nil {
				return err
			}
			defer s.close()

			files, _, err := s.pipeline.Generate(cmd.Context(), s.source, s.opts)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			switch {
			case jsonOutput:
				return renderJSON(cmd, files)
			case only != "":
				_, content := artifact(files, only)
				fmt.Fprint(out, content)
			default:
				for i, name := range artifacts {
					title, content := artifact(files, name)
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "# ---- %s ----\n%s", title, content)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&only, "only", "", "Print a single artifact: dockerfile, compose, dockerignore or readme")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output every artifact as JSON")
	return cmd
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
