package cmd

import (
	"fmt"
	"os"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ops"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/storage"
	"github.com/spf13/cobra"
)

func BackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Dump the database to a timestamped file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			dir, _ := cmd.Flags().GetString("dir")
			if dir == "" {
				dir = cfg.BackupDir
			}

			backup := &ops.Backup{
				Runner: ops.ExecRunner{},
				Dir:    dir,
				Stderr: os.Stderr,
			}

			if s3 := cfg.S3(); s3.Enabled() {
				backup.Storage, err = storage.NewS3Storage(cmd.Context(), s3)
				if err != nil {
					return err
				}
			}

			path, err := backup.Run(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().String("dir", "", "backup directory (default $BACKUP_DIR)")
	return cmd
}
