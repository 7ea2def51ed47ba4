package app

import (
	"database/sql"
	"fmt"

	"github.com/guttosm/coinpulse/config"
	"github.com/guttosm/coinpulse/internal/storage"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
)

// InitPostgres opens the run store and brings its schema up to date.
//
// Behavior:
//   - Opens a database handle with cfg.Postgres.URL, or the DSN built from
//     the individual fields when URL is empty.
//   - Pings the database to validate connectivity.
//   - Applies the embedded goose migrations.
//
// Example usage:
//
//	db, err := app.InitPostgres(config.AppConfig)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
func InitPostgres(cfg config.Config) (*sql.DB, error) {
	dsn := cfg.Postgres.URL
	if dsn == "" {
		dsn = cfg.Postgres.DSN()
	}

	db, err := sqlOpener("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	if err := migrator(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate postgres: %w", err)
	}

	return db, nil
}

// sqlOpener and migrator are indirections for unit testing.
var (
	sqlOpener = sql.Open
	migrator  = storage.Migrate
)

// postgresOpener is used by InitializeApp; overridden in tests to avoid real connections.
var postgresOpener = InitPostgres
