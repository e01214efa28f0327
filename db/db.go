// Package db provides database connectivity and migration functionality.
// It establishes the pgx connection pool shared by every store and applies
// the SQL migrations embedded in this package with golang-migrate.
package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	// Registers the "postgres" database driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	// migrate's postgres driver talks through database/sql with lib/pq.
	_ "github.com/lib/pq"

	"github.com/user/todolist-go/apperror"
	"github.com/user/todolist-go/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// NewPool establishes the application connection pool from configuration.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	return NewPoolFromDSN(ctx, cfg.DSN(), cfg.MaxSize)
}

// NewPoolFromDSN creates, configures and pings a pgxpool connection pool.
func NewPoolFromDSN(ctx context.Context, dsn string, maxSize int) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, apperror.NewDatabaseError("error parsing database DSN", err)
	}

	if maxSize > 0 {
		poolConfig.MaxConns = int32(maxSize)
	}
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	// Bound pool creation so an unreachable database fails startup quickly.
	createCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(createCtx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError("error creating pgxpool", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperror.NewDatabaseError("error connecting to the database", err)
	}

	return pool, nil
}

// newMigrator builds a golang-migrate instance reading the embedded SQL files.
func newMigrator(dsn string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, apperror.NewMigrationError("failed to open embedded migrations", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return nil, apperror.NewMigrationError("failed to create migrator", err)
	}
	return m, nil
}

func closeMigrator(m *migrate.Migrate) {
	if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
		slog.Warn("error closing migrator", "source_error", srcErr, "database_error", dbErr)
	}
}

// MigrateUp applies all pending migrations. Running it on an up-to-date
// schema is a no-op.
func MigrateUp(dsn string) error {
	m, err := newMigrator(dsn)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewMigrationError("failed to run migrations", err)
	}
	version, dirty, err := m.Version()
	if err == nil {
		slog.Info("database schema ready", "version", version, "dirty", dirty)
	}
	return nil
}

// MigrateDown rolls back the given number of migrations.
func MigrateDown(dsn string, steps int) error {
	if steps <= 0 {
		return apperror.NewMigrationError(fmt.Sprintf("invalid number of steps: %d", steps), nil)
	}
	m, err := newMigrator(dsn)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewMigrationError("failed to roll back migrations", err)
	}
	return nil
}
