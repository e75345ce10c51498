package ops

import (
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
)

// ConnParams are the parts of a Postgres URL the command line tools need.
type ConnParams struct {
	Host     string
	Port     uint16
	User     string
	Password string
	Database string
	SSLMode  string
}

func ParseDatabaseURL(databaseURL string) (*ConnParams, error) {
	cfg, err := pgconn.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("invalid DATABASE_URL: no database name")
	}

	sslMode := "disable"
	if cfg.TLSConfig != nil {
		sslMode = "require"
		if len(cfg.Fallbacks) > 0 {
			sslMode = "prefer"
		}
	}

	return &ConnParams{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Database: cfg.Database,
		SSLMode:  sslMode,
	}, nil
}

// Env is the libpq environment for pg_dump, psql and pg_isready.
// Passwords never go on the command line where ps could show them.
func (p *ConnParams) Env() []string {
	return []string{
		"PGHOST=" + p.Host,
		"PGPORT=" + strconv.Itoa(int(p.Port)),
		"PGUSER=" + p.User,
		"PGPASSWORD=" + p.Password,
		"PGDATABASE=" + p.Database,
		"PGSSLMODE=" + p.SSLMode,
	}
}

// Target names the database without credentials, for log and prompt output.
func (p *ConnParams) Target() string {
	return fmt.Sprintf("%s on %s:%d", p.Database, p.Host, p.Port)
}
