package cmd

import (
	"os"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ops"
	"github.com/spf13/cobra"
)

func GenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Regenerate templ components when their sources changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			path, _ := cmd.Flags().GetString("path")
			return ops.Generate(cmd.Context(), ops.ExecRunner{}, path, force, cmd.OutOrStdout(), os.Stderr)
		},
	}

	cmd.Flags().Bool("force", false, "regenerate even when the output is up to date")
	cmd.Flags().String("path", "internal/ui", "folder holding the .templ sources")
	return cmd
}
