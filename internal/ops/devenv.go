package ops

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNoContainerEngine = errors.New("docker is not reachable, start Docker and try again")
	ErrDatabaseNotReady  = errors.New("database did not become ready")
)

// DevEnv brings up the local Postgres container and then runs the app.
type DevEnv struct {
	Runner Runner
	Config *Config
	// AppCommand is the process started once the database is ready
	AppCommand Command
	Sleep      func(time.Duration)
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

// Run returns the app's exit code. Setup failures return an error and code 1.
func (d *DevEnv) Run(ctx context.Context) (int, error) {
	conn, err := ParseDatabaseURL(d.Config.DatabaseURL)
	if err != nil {
		return 1, err
	}

	err = d.Runner.Run(ctx, Command{Name: "docker", Args: []string{"info"}})
	if err != nil {
		return 1, fmt.Errorf("%w: %v", ErrNoContainerEngine, err)
	}

	err = d.ensureContainer(ctx, conn)
	if err != nil {
		return 1, err
	}

	err = d.waitReady(ctx, conn)
	if err != nil {
		return 1, err
	}

	app := d.AppCommand
	app.Stdin = d.Stdin
	app.Stdout = d.Stdout
	app.Stderr = d.Stderr
	slog.Info("starting app", "command", app.Name+" "+strings.Join(app.Args, " "))

	err = d.Runner.Run(ctx, app)
	return ExitCode(err), nil
}

func (d *DevEnv) ensureContainer(ctx context.Context, conn *ConnParams) error {
	name := d.Config.ContainerName

	out, err := d.Runner.Output(ctx, Command{
		Name: "docker",
		Args: []string{"inspect", "--format", "{{.State.Running}}", name},
	})
	if err != nil {
		// docker inspect fails for unknown containers
		slog.Info("creating database container", "name", name, "image", d.Config.ContainerImage)
		err = d.Runner.Run(ctx, Command{
			Name: "docker",
			Args: []string{
				"run", "--detach",
				"--name", name,
				"--env", "POSTGRES_USER",
				"--env", "POSTGRES_PASSWORD",
				"--env", "POSTGRES_DB",
				"--publish", strconv.Itoa(int(conn.Port)) + ":5432",
				d.Config.ContainerImage,
			},
			// docker copies these from its own environment, keeping the password out of argv
			Env: []string{
				"POSTGRES_USER=" + conn.User,
				"POSTGRES_PASSWORD=" + conn.Password,
				"POSTGRES_DB=" + conn.Database,
			},
			Stderr: d.Stderr,
		})
		if err != nil {
			return fmt.Errorf("failed to create container %s: %w", name, err)
		}
		return nil
	}

	if strings.TrimSpace(string(out)) == "true" {
		slog.Info("database container already running", "name", name)
		return nil
	}

	slog.Info("starting database container", "name", name)
	err = d.Runner.Run(ctx, Command{Name: "docker", Args: []string{"start", name}, Stderr: d.Stderr})
	if err != nil {
		return fmt.Errorf("failed to start container %s: %w", name, err)
	}
	return nil
}

// waitReady polls pg_isready inside the container a bounded number of times.
func (d *DevEnv) waitReady(ctx context.Context, conn *ConnParams) error {
	sleep := time.Sleep
	if d.Sleep != nil {
		sleep = d.Sleep
	}

	attempts := d.Config.ReadyAttempts
	for attempt := 1; attempt <= attempts; attempt++ {
		err := d.Runner.Run(ctx, Command{
			Name: "docker",
			Args: []string{"exec", d.Config.ContainerName, "pg_isready", "--username", conn.User, "--dbname", conn.Database},
		})
		if err == nil {
			slog.Info("database ready", "attempts", attempt)
			return nil
		}

		slog.Debug("database not ready yet", "attempt", attempt, "of", attempts)
		if attempt < attempts {
			sleep(d.Config.ReadyInterval)
		}
	}

	return fmt.Errorf("%w after %d attempts", ErrDatabaseNotReady, attempts)
}
