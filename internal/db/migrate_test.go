package db_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/db"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrationsCreatesTables(t *testing.T) {
	database := dbtest.New(t)

	for _, table := range []string{"users", "resolutions", "check_ins", "page_views"} {
		var count int
		err := database.Get(&count, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = $1`, table)
		require.NoError(t, err)
		assert.Equal(t, 1, count, table)
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	database := dbtest.New(t)

	err := db.RunMigrations(database.DB, db.DriverSQLite)
	assert.NoError(t, err)
}

func TestRunMigrationsDirMissingFolder(t *testing.T) {
	database := dbtest.New(t)

	err := db.RunMigrationsDir(database.DB, db.DriverSQLite, filepath.Join(t.TempDir(), "nope"))
	assert.NoError(t, err)
}

func TestRunMigrationsDirNotADirectory(t *testing.T) {
	database := dbtest.New(t)

	file := filepath.Join(t.TempDir(), "file.sql")
	require.NoError(t, os.WriteFile(file, []byte("-- nothing"), 0o600))

	err := db.RunMigrationsDir(database.DB, db.DriverSQLite, file)
	assert.Error(t, err)
}

func TestRunMigrationsDirAppliesFolder(t *testing.T) {
	database := dbtest.New(t)

	dir := t.TempDir()
	migration := "-- +goose Up\nCREATE TABLE notes (id TEXT PRIMARY KEY);\n\n-- +goose Down\nDROP TABLE notes;\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00100_create_notes.sql"), []byte(migration), 0o600))

	err := db.RunMigrationsDir(database.DB, db.DriverSQLite, dir)
	require.NoError(t, err)

	_, err = database.Exec(`INSERT INTO notes (id) VALUES ('a')`)
	assert.NoError(t, err)
}

func TestProgressCheckConstraint(t *testing.T) {
	database := dbtest.New(t)

	_, err := database.Exec(`INSERT INTO users (id, email, created_at, updated_at) VALUES ('u1', 'u1@example.com', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	require.NoError(t, err)

	insert := `INSERT INTO resolutions (id, user_id, title, category, status, progress, created_at, updated_at)
	           VALUES ($1, 'u1', 't', 'Career', 'not_started', $2, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	_, err = database.Exec(insert, "ok", 100)
	assert.NoError(t, err)

	_, err = database.Exec(insert, "too-high", 101)
	assert.Error(t, err)

	_, err = database.Exec(insert, "negative", -1)
	assert.Error(t, err)
}

func TestInitSQLiteEnablesForeignKeys(t *testing.T) {
	for _, dsn := range []string{"test.db", "test.db?_pragma=busy_timeout(5000)"} {
		database, err := db.Init(db.DriverSQLite, "file:"+filepath.Join(t.TempDir(), dsn))
		require.NoError(t, err)

		var enabled int
		require.NoError(t, database.Get(&enabled, `PRAGMA foreign_keys`))
		assert.Equal(t, 1, enabled, dsn)
		require.NoError(t, db.Close(database))
	}
}

func TestInitSQLiteKeepsExplicitForeignKeys(t *testing.T) {
	database, err := db.Init(db.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "test.db")+"?_pragma=foreign_keys(0)")
	require.NoError(t, err)
	defer db.Close(database)

	var enabled int
	require.NoError(t, database.Get(&enabled, `PRAGMA foreign_keys`))
	assert.Equal(t, 0, enabled)
}
