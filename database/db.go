package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"platefinder/config"
	"platefinder/logging"
	"platefinder/query"
)

// Connect opens the restaurants database and returns the SQL dialect its
// queries must be rendered in. The pool is tuned for serverless Postgres
// (Neon): idle connections are not kept so suspended compute is released.
func Connect(cfg config.DatabaseConfig) (*sql.DB, query.Dialect, error) {
	if cfg.URL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	dialect, err := query.DialectFor(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		logging.Warn().Err(err).Str("driver", cfg.Driver).Msg("database ping failed, proceeding")
	}

	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	logging.Info().Str("driver", cfg.Driver).Int("max_open_conns", cfg.MaxOpenConns).Msg("connected to database")
	return db, dialect, nil
}
