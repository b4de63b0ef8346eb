package main

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// runMigrations applies all pending migrations for the configured driver.
// Migrations use their own connection because closing the migrator
// closes the database it was given.
func runMigrations(cfg *Config) (uint, error) {
	migrateDB, err := openMigrationDB(cfg)
	if err != nil {
		return 0, fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	var driver database.Driver
	switch cfg.DBDriver {
	case driverSQLite:
		driver, err = sqlite.WithInstance(migrateDB, &sqlite.Config{})
	default:
		driver, err = migratepgx.WithInstance(migrateDB, &migratepgx.Config{})
	}
	if err != nil {
		return 0, fmt.Errorf("create %s migration driver: %w", cfg.DBDriver, err)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+cfg.DBDriver)
	if err != nil {
		return 0, fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, cfg.DBDriver, driver)
	if err != nil {
		return 0, fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("migration version %d is dirty", version)
	}
	return version, nil
}

func openMigrationDB(cfg *Config) (*sql.DB, error) {
	if cfg.DBDriver == driverSQLite {
		if err := ensureSQLiteDir(cfg.SQLitePath); err != nil {
			return nil, err
		}
		return sql.Open("sqlite", sqliteDSN(cfg.SQLitePath))
	}
	config, err := pgx.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	return stdlib.OpenDB(*config), nil
}
