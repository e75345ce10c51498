package ops

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/storage"
)

const (
	backupPrefix     = "backup-"
	backupSuffix     = ".sql"
	backupTimeLayout = "20060102-150405"
)

// BackupFileName is sortable: newer backups compare greater.
func BackupFileName(t time.Time) string {
	return backupPrefix + t.UTC().Format(backupTimeLayout) + backupSuffix
}

type Backup struct {
	Runner Runner
	Dir    string
	// Storage, when set, receives a copy of every dump
	Storage storage.Storage
	Now     func() time.Time
	Stderr  io.Writer
}

// Run dumps the database behind databaseURL into Dir and returns the file path.
func (b *Backup) Run(ctx context.Context, databaseURL string) (string, error) {
	conn, err := ParseDatabaseURL(databaseURL)
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(b.Dir, 0o700)
	if err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	path := filepath.Join(b.Dir, BackupFileName(now()))

	slog.Info("starting backup", "database", conn.Target(), "file", path)

	err = b.Runner.Run(ctx, Command{
		Name:   "pg_dump",
		Args:   []string{"--no-owner", "--no-privileges", "--clean", "--if-exists", "--file", path},
		Env:    conn.Env(),
		Stderr: b.Stderr,
	})
	if err != nil {
		removeErr := os.Remove(path)
		if removeErr != nil && !errors.Is(removeErr, fs.ErrNotExist) {
			slog.Warn("failed to remove partial backup", "file", path, "error", removeErr)
		}
		return "", fmt.Errorf("pg_dump failed: %w", err)
	}

	if b.Storage != nil {
		err = b.upload(ctx, path)
		if err != nil {
			return path, err
		}
	}

	slog.Info("backup complete", "file", path)
	return path, nil
}

func (b *Backup) upload(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open backup for upload: %w", err)
	}
	defer func() {
		closeErr := f.Close()
		if closeErr != nil {
			slog.Warn("failed to close backup file", "error", closeErr)
		}
	}()

	key := "backups/" + filepath.Base(path)
	err = b.Storage.Save(ctx, key, f)
	if err != nil {
		return fmt.Errorf("backup written to %s but upload failed: %w", path, err)
	}

	slog.Info("backup uploaded", "url", b.Storage.URL(key))
	return nil
}

// ListBackups returns backup file names in dir, newest first. A missing dir has none.
func ListBackups(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, backupSuffix) {
			names = append(names, name)
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}
