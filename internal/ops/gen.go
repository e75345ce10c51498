package ops

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// TemplStale reports whether any .templ file under root is newer than its
// generated _templ.go file, or has none.
func TemplStale(root string) (bool, error) {
	stale := false
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".templ") {
			return nil
		}

		src, err := d.Info()
		if err != nil {
			return err
		}
		out, err := os.Stat(strings.TrimSuffix(path, ".templ") + "_templ.go")
		if err != nil || src.ModTime().After(out.ModTime()) {
			stale = true
			return filepath.SkipAll
		}
		return nil
	})
	return stale, err
}

// Generate regenerates the templ components under root with the templ tool
// pinned in go.mod. Up to date output is left alone unless force is set.
func Generate(ctx context.Context, runner Runner, root string, force bool, stdout, stderr io.Writer) error {
	if !force {
		stale, err := TemplStale(root)
		if err != nil {
			return fmt.Errorf("failed to scan templ files: %w", err)
		}
		if !stale {
			slog.Info("templ output up to date", "path", root)
			return nil
		}
	}

	err := runner.Run(ctx, Command{
		Name:   "go",
		Args:   []string{"tool", "templ", "generate", "-path", root},
		Stdout: stdout,
		Stderr: stderr,
	})
	if err != nil {
		return fmt.Errorf("templ generate failed: %w", err)
	}
	return nil
}
