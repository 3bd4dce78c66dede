// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/authdesk/authdesk/internal/config"
)

// Create builds the Data Source Name for the configured engine. An empty
// engine means sqlite.
func Create(cfg *config.DB) (string, error) {
	switch cfg.Engine {
	case config.EngineMySQL:
		return MySQL(cfg), nil
	case config.EnginePostgres:
		return Postgres(cfg), nil
	case config.EngineSQLite, "":
		return SQLite(cfg), nil
	default:
		return "", config.ErrUnknownDBEngine
	}
}

// MySQL builds a go-sql-driver/mysql DSN.
func MySQL(cfg *config.DB) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
		cfg.Extras,
	)
}

// Postgres builds a pgx keyword/value DSN.
func Postgres(cfg *config.DB) string {
	out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
	)

	if cfg.Extras != "" {
		out += " " + cfg.Extras
	}

	return out
}

// PostgresURL builds a postgres:// connection URL, as required by the session storage.
func PostgresURL(cfg *config.DB) string {
	out := fmt.Sprintf("postgres://%s:%s@%s:%d/%s", cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)

	if cfg.Extras != "" {
		out += "?" + strings.ReplaceAll(cfg.Extras, " ", "&")
	}

	return out
}

// SQLite builds a file DSN with foreign keys enabled.
func SQLite(cfg *config.DB) string {
	name := cfg.Name
	if name == "" {
		name = ":memory:"
	}

	return name + "?_pragma=foreign_keys(1)"
}
