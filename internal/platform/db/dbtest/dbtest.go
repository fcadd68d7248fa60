// Package dbtest gives repository tests a migrated PostgreSQL schema of their
// own. Tests using it are skipped unless DATABASE_URL points at a server.
package dbtest

import (
	"context"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/db"
)

// New creates a fresh schema, applies the embedded migrations to it and
// returns a pool whose search_path points there. The schema is dropped when
// the test ends.
func New(t testing.TB) *pgxpool.Pool {
	t.Helper()

	base := os.Getenv("DATABASE_URL")
	if base == "" {
		t.Skip("DATABASE_URL not set, skipping database test")
	}
	ctx := context.Background()

	admin, err := db.NewPool(ctx, db.PoolConfig{URL: base, MaxConns: 2})
	if err != nil {
		t.Fatalf("connect admin pool: %v", err)
	}

	// Created up front so parallel packages do not race on it in their own
	// schemas.
	if _, err := admin.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS "pgcrypto"`); err != nil {
		t.Logf("create pgcrypto extension: %v", err)
	}

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := admin.Exec(ctx, "CREATE SCHEMA "+schema); err != nil {
		admin.Close()
		t.Fatalf("create schema %s: %v", schema, err)
	}

	dsn, err := withSearchPath(base, schema)
	if err != nil {
		admin.Close()
		t.Fatalf("build schema url: %v", err)
	}

	m, err := db.NewMigrator(dsn)
	if err != nil {
		admin.Close()
		t.Fatalf("open migrator: %v", err)
	}
	upErr := m.Up()
	_ = m.Close()
	if upErr != nil {
		admin.Close()
		t.Fatalf("apply migrations: %v", upErr)
	}

	pool, err := db.NewPool(ctx, db.PoolConfig{URL: dsn, MaxConns: 10})
	if err != nil {
		admin.Close()
		t.Fatalf("connect test pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if _, err := admin.Exec(context.Background(), "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
		admin.Close()
	})
	return pool
}

func withSearchPath(base, schema string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("search_path", schema+",public")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
