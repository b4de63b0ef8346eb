package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	connectRetries    = 60
	connectRetryDelay = 2 * time.Second
)

// openDB opens the configured database and waits for it to accept
// connections.
func openDB(ctx context.Context, cfg *Config, logger *slog.Logger) (*sql.DB, error) {
	switch cfg.DBDriver {
	case driverSQLite:
		return openSQLite(cfg.SQLitePath)
	default:
		return openPostgres(ctx, cfg.DatabaseURL, logger)
	}
}

func openPostgres(ctx context.Context, databaseURL string, logger *slog.Logger) (*sql.DB, error) {
	config, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Wait for database to be ready with retries
	for i := 0; i < connectRetries; i++ {
		db := stdlib.OpenDB(*config)
		err := db.PingContext(ctx)
		if err == nil {
			logger.Info("Database connection established", "driver", driverPostgres)
			return db, nil
		}
		db.Close()

		if i == connectRetries-1 {
			return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", connectRetries, err)
		}
		// Log the actual error on the first attempts and every 10th after
		if i < 5 || i%10 == 0 {
			logger.Warn("Database not ready, retrying", "attempt", i+1, "max_attempts", connectRetries, "retry_in", connectRetryDelay, "error", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectRetryDelay):
		}
	}
	return nil, fmt.Errorf("failed to connect to database")
}

// sqliteDSN enables foreign keys, waits on locks and stores times in a
// sortable text format.
func sqliteDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Set("_time_format", "sqlite")
	return "file:" + path + "?" + q.Encode()
}

// ensureSQLiteDir creates the directory holding the database file.
func ensureSQLiteDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create SQLite directory '%s': %w", dir, err)
	}
	return nil
}

func openSQLite(path string) (*sql.DB, error) {
	if err := ensureSQLiteDir(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection avoids SQLITE_BUSY between writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	return db, nil
}
