// Package dbtest opens migrated throwaway databases for tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/jyokotori/neko-words/internal/infrastructure/database"
	"github.com/jyokotori/neko-words/internal/infrastructure/database/migrate"
)

// RequireSQLite skips the test when the cgo sqlite driver is unavailable.
func RequireSQLite(t testing.TB) {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		t.Skipf("sqlite driver not available: %v", err)
		return
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Skipf("skipping sqlite-dependent tests: %v", err)
	}
}

// OpenSQLite returns a migrated SQLite database in a temp dir, closed on cleanup.
func OpenSQLite(t testing.TB) *database.DB {
	t.Helper()
	RequireSQLite(t)
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	db, closeDB, err := database.OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(closeDB)
	if err := migrate.Create(context.Background(), db.Dialect, db.DB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
