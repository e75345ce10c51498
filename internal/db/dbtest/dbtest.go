// Package dbtest opens throwaway SQLite databases with the real migrations applied.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/db"
	"github.com/stretchr/testify/require"
)

// New returns a migrated database that is closed when the test ends.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	database, err := db.Init(db.DriverSQLite, "file:"+path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = database.Close()
	})

	err = db.RunMigrations(database.DB, db.DriverSQLite)
	require.NoError(t, err)

	return database
}
