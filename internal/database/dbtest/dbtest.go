// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/iliyamo/gig-marketplace/internal/config"
	"github.com/iliyamo/gig-marketplace/internal/database"
)

// Open returns a fresh database private to t, closed when t finishes.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := database.OpenSQLite("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(context.Background(), db, config.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Shared-cache table locks do not wait on busy_timeout, so tests that
	// write from several goroutines are funnelled through one connection.
	db.SetMaxOpenConns(1)
	return db
}
