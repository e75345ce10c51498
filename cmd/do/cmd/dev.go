package cmd

import (
	"fmt"
	"os"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ops"
	"github.com/spf13/cobra"
)

// ExitCodeError carries a child process exit code up to main.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exited with code %d", e.Code)
}

func DevCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dev",
		Short: "Start the local Postgres container and run the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			dev := &ops.DevEnv{
				Runner:     ops.ExecRunner{},
				Config:     cfg,
				AppCommand: ops.Command{Name: "go", Args: []string{"run", "./cmd/server"}},
				Stdin:      os.Stdin,
				Stdout:     os.Stdout,
				Stderr:     os.Stderr,
			}

			code, err := dev.Run(cmd.Context())
			if err != nil {
				return err
			}
			if code != 0 {
				return &ExitCodeError{Code: code}
			}
			return nil
		},
	}
}
