package cmd

import (
	"fmt"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/db"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ops"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/repository"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/service"
	"github.com/spf13/cobra"
)

func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample resolutions for $SEED_USER_ID (or $DEV_USER_ID)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ownerID := cfg.SeedOwnerID()
			if ownerID == "" {
				return ops.ErrNoSeedUser
			}

			database, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(database)

			err = db.RunMigrations(database.DB, cfg.DBDriver)
			if err != nil {
				return err
			}

			seeder := &ops.Seeder{
				Users: repository.NewUserRepository(database),
				Resolutions: service.NewResolutionService(
					repository.NewResolutionRepository(database),
					repository.NewCheckInRepository(database),
				),
			}

			created, err := seeder.Seed(ownerID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d resolutions for user %s\n", created, ownerID)
			return nil
		},
	}
}
