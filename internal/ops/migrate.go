package ops

import (
	"database/sql"
	"fmt"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/db"
)

const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

// Migrate applies (up) or rolls back one (down) migration. With dir set, migrations come
// from that folder instead of the embedded set, and a missing folder is nothing to do.
func Migrate(database *sql.DB, driver, direction, dir string) error {
	switch direction {
	case MigrateUp:
		if dir != "" {
			return db.RunMigrationsDir(database, driver, dir)
		}
		return db.RunMigrations(database, driver)
	case MigrateDown:
		return db.MigrateDown(database, driver)
	default:
		return fmt.Errorf("unknown migrate direction %q, want %q or %q", direction, MigrateUp, MigrateDown)
	}
}
