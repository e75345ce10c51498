package cmd

import (
	"os"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ops"
	"github.com/spf13/cobra"
)

func RestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore [file]",
		Short: "Restore a backup, or list backups when no file is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			yes, _ := cmd.Flags().GetBool("yes")
			restore := &ops.Restore{
				Runner: ops.ExecRunner{},
				Dir:    cfg.BackupDir,
				Yes:    yes,
				In:     cmd.InOrStdin(),
				Out:    cmd.OutOrStdout(),
				Stderr: os.Stderr,
			}

			if len(args) == 0 {
				_, err = restore.List()
				return err
			}

			return restore.Run(cmd.Context(), cfg.DatabaseURL, args[0])
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return cmd
}
