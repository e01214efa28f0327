// This is the main entry point of the todolist service.
// It wires configuration, storage, services and HTTP handlers together and
// exposes them through a small command line: `serve` (the default) runs the
// API server, `migrate up` / `migrate down` manage the PostgreSQL schema.
//
// @title Todo List API
// @version 1.0
// @description Personal task lists with JWT bearer authentication.
// @contact.name API Support
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/user/todolist-go/config"
	"github.com/user/todolist-go/db"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "todolist",
		Usage: "personal todo lists over a JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Value:   ".env",
				Usage:   "load environment variables from `FILE` before reading configuration",
				EnvVars: []string{"ENV_FILE"},
			},
		},
		Before:         loadEnvFile,
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API server",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "manage the PostgreSQL schema",
				Subcommands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "apply all pending migrations",
						Action: migrateUp,
					},
					{
						Name:  "down",
						Usage: "roll back migrations",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
						},
						Action: migrateDown,
					},
				},
			},
		},
	}
}

// loadEnvFile reads the .env file if there is one. A missing default file is
// normal in production; a missing file the user asked for is an error.
func loadEnvFile(c *cli.Context) error {
	path := c.String("env-file")
	if err := godotenv.Load(path); err != nil {
		if c.IsSet("env-file") {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		slog.Debug("no env file loaded", "path", path, "error", err)
	}
	return nil
}

// loadRuntime reads configuration and installs the process-wide logger.
func loadRuntime() (*config.AppConfig, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := newLogger(os.Stdout, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return cfg, nil
}

func serve(c *cli.Context) error {
	cfg, err := loadRuntime()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := buildDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      newRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	slog.Info("server stopped gracefully")
	return nil
}

// postgresDSN returns the database URL, refusing to run schema commands
// against the in-memory driver.
func postgresDSN() (string, error) {
	cfg, err := loadRuntime()
	if err != nil {
		return "", err
	}
	if cfg.Storage != config.DriverPostgres {
		return "", fmt.Errorf("migrations need STORAGE_DRIVER=%s, got %s", config.DriverPostgres, cfg.Storage)
	}
	return cfg.DB.DSN(), nil
}

func migrateUp(_ *cli.Context) error {
	dsn, err := postgresDSN()
	if err != nil {
		return err
	}
	return db.MigrateUp(dsn)
}

func migrateDown(c *cli.Context) error {
	dsn, err := postgresDSN()
	if err != nil {
		return err
	}
	if err := db.MigrateDown(dsn, c.Int("steps")); err != nil {
		return err
	}
	slog.Info("migrations rolled back", "steps", c.Int("steps"))
	return nil
}
