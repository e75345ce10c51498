package cmd

import (
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ops"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply pending migrations (default) or roll back the latest one",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{ops.MigrateUp, ops.MigrateDown},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := ops.MigrateUp
			if len(args) == 1 {
				direction = args[0]
			}
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			database, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(database)

			return ops.Migrate(database.DB, cfg.DBDriver, direction, dir)
		},
	}

	cmd.Flags().String("dir", "", "read migrations from this folder instead of the built-in set")
	return cmd
}
