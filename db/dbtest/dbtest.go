// Package dbtest opens a migrated PostgreSQL pool for integration tests.
//
// Integration tests are opt-in: they run only when TODO_TEST_DATABASE_URL
// points at a database the tests may write to, and are skipped otherwise.
package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/todolist-go/db"
)

// EnvVar names the variable holding the test database URL.
const EnvVar = "TODO_TEST_DATABASE_URL"

// OpenPool skips the test when no database is configured. Otherwise it
// applies migrations and returns a pool that is closed on test cleanup.
func OpenPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(EnvVar)
	if dsn == "" {
		t.Skipf("%s not set; skipping Postgres integration test", EnvVar)
	}

	if err := db.MigrateUp(dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := db.NewPoolFromDSN(ctx, dsn, 4)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}
