package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// dialectMap maps database drivers to Goose dialect names
var dialectMap = map[string]string{
	DriverSQLite:   "sqlite3",
	DriverPostgres: "postgres",
}

func getDialect(driver string) string {
	dialect, ok := dialectMap[driver]
	if ok {
		return dialect
	}
	return driver
}

// setupGoose configures Goose with the correct dialect and filesystem
func setupGoose(driver string, fsys fs.FS) error {
	err := goose.SetDialect(getDialect(driver))
	if err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	goose.SetBaseFS(fsys)
	return nil
}

func embeddedMigrations() (fs.FS, error) {
	migrationsDir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to get migrations directory: %w", err)
	}
	return migrationsDir, nil
}

// RunMigrations applies all pending embedded migrations.
func RunMigrations(db *sql.DB, driver string) error {
	fsys, err := embeddedMigrations()
	if err != nil {
		return err
	}

	err = setupGoose(driver, fsys)
	if err != nil {
		return err
	}

	err = goose.Up(db, ".")
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("migrations completed successfully")
	return nil
}

// RunMigrationsDir applies pending migrations from a folder on disk.
// A missing folder means there is nothing to apply and is not an error.
func RunMigrationsDir(db *sql.DB, driver, dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("no migrations folder found, nothing to apply", "dir", dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read migrations folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("migrations path %s is not a directory", dir)
	}

	err = setupGoose(driver, os.DirFS(dir))
	if err != nil {
		return err
	}

	err = goose.Up(db, ".")
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("migrations completed successfully", "dir", dir)
	return nil
}

func MigrateDown(db *sql.DB, driver string) error {
	fsys, err := embeddedMigrations()
	if err != nil {
		return err
	}

	err = setupGoose(driver, fsys)
	if err != nil {
		return err
	}

	err = goose.Down(db, ".")
	if err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	slog.Info("rolled back one migration")
	return nil
}
