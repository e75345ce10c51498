package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/cmd/do/cmd"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	// stdout is reserved for command output
	logger.InitWriter(os.Stderr, true, "")

	rootCmd := &cobra.Command{
		Use:           "do",
		Short:         "Operator and development tools for the resolutions app",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(cmd.DevCmd())
	rootCmd.AddCommand(cmd.BackupCmd())
	rootCmd.AddCommand(cmd.RestoreCmd())
	rootCmd.AddCommand(cmd.SeedCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.GenCmd())

	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var exitErr *cmd.ExitCodeError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}

	slog.Error("command failed", "error", err)
	os.Exit(1)
}
