package ops

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var ErrRestoreAborted = errors.New("restore aborted by operator")

// MissingBackupError is returned before anything touches the database.
type MissingBackupError struct {
	File      string
	Available []string
}

func (e *MissingBackupError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("backup %q not found, no backups available", e.File)
	}
	return fmt.Sprintf("backup %q not found, available: %s", e.File, strings.Join(e.Available, ", "))
}

type Restore struct {
	Runner Runner
	Dir    string
	// Yes skips the confirmation prompt
	Yes    bool
	In     io.Reader
	Out    io.Writer
	Stderr io.Writer
}

// List prints the available backups, newest first.
func (r *Restore) List() ([]string, error) {
	names, err := ListBackups(r.Dir)
	if err != nil {
		return nil, err
	}

	if len(names) == 0 {
		fmt.Fprintf(r.Out, "No backups in %s\n", r.Dir)
		return names, nil
	}

	fmt.Fprintf(r.Out, "Backups in %s (newest first):\n", r.Dir)
	for _, name := range names {
		fmt.Fprintf(r.Out, "  %s\n", name)
	}
	return names, nil
}

// resolve accepts a bare file name from the backup dir or any path.
func (r *Restore) resolve(file string) string {
	if filepath.Base(file) == file {
		return filepath.Join(r.Dir, file)
	}
	return file
}

// Run restores file into the database behind databaseURL after confirmation.
func (r *Restore) Run(ctx context.Context, databaseURL, file string) error {
	conn, err := ParseDatabaseURL(databaseURL)
	if err != nil {
		return err
	}

	path := r.resolve(file)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		available, listErr := r.List()
		if listErr != nil {
			slog.Warn("failed to list backups", "error", listErr)
		}
		return &MissingBackupError{File: file, Available: available}
	}

	fmt.Fprintf(r.Out, "WARNING: restoring %s will overwrite database %s.\n", filepath.Base(path), conn.Target())
	if !r.Yes {
		ok, err := confirm(r.In, r.Out)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRestoreAborted
		}
	}

	slog.Info("starting restore", "database", conn.Target(), "file", path)

	err = r.Runner.Run(ctx, Command{
		Name:   "psql",
		Args:   []string{"--quiet", "--single-transaction", "--set", "ON_ERROR_STOP=1", "--file", path},
		Env:    conn.Env(),
		Stdout: r.Out,
		Stderr: r.Stderr,
	})
	if err != nil {
		return fmt.Errorf("psql failed: %w", err)
	}

	slog.Info("restore complete", "file", path)
	return nil
}

func confirm(in io.Reader, out io.Writer) (bool, error) {
	fmt.Fprint(out, "Type 'yes' to continue: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "yes" || answer == "y", nil
}
