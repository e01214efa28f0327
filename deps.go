package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/todolist-go/auth"
	"github.com/user/todolist-go/config"
	"github.com/user/todolist-go/db"
	"github.com/user/todolist-go/metrics"
	"github.com/user/todolist-go/password"
	"github.com/user/todolist-go/todos"
	"github.com/user/todolist-go/users"
)

// pinger reports whether the backing database answers.
type pinger interface {
	Ping(ctx context.Context) error
}

// dependencies holds the process-wide singletons built once at startup.
type dependencies struct {
	storage config.StorageDriver
	db      pinger
	pool    *pgxpool.Pool

	users   users.Store
	todos   todos.Store
	hasher  auth.PasswordHasher
	tokens  *auth.TokenService
	metrics *metrics.Metrics

	allowedOrigins []string
}

// buildDependencies constructs stores and services for the configured
// storage driver. For Postgres it applies pending migrations first.
func buildDependencies(ctx context.Context, cfg *config.AppConfig) (*dependencies, error) {
	hasher, err := password.NewHasher(password.Params{
		MemoryKiB:   cfg.Password.MemoryKiB,
		Iterations:  cfg.Password.Iterations,
		Parallelism: cfg.Password.Parallelism,
	})
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	tokens, err := auth.NewTokenService(*cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	d := &dependencies{
		storage:        cfg.Storage,
		hasher:         hasher,
		tokens:         tokens,
		metrics:        metrics.New(),
		allowedOrigins: cfg.Server.AllowedOrigins,
	}

	switch cfg.Storage {
	case config.DriverMemory:
		slog.Warn("using in-memory storage; data is lost on restart")
		d.users = users.NewMemoryStore()
		d.todos = todos.NewMemoryStore()
	case config.DriverPostgres:
		if err := db.MigrateUp(cfg.DB.DSN()); err != nil {
			return nil, err
		}
		pool, err := db.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		d.pool = pool
		d.db = pool
		d.users = users.NewPostgresStore(pool)
		d.todos = todos.NewPostgresStore(pool)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage)
	}
	return d, nil
}

// Close releases the database pool, if any.
func (d *dependencies) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

// newLogger builds the JSON slog logger used for the whole process.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
