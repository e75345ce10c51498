package cmd

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/db"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ops"
)

func loadConfig() (*ops.Config, error) {
	err := godotenv.Load()
	if err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
	return ops.LoadConfig()
}

func openDB(cfg *ops.Config) (*sqlx.DB, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

func closeDB(database *sqlx.DB) {
	err := db.Close(database)
	if err != nil {
		slog.Error("failed to close database", "error", err)
	}
}
