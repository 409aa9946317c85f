// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"library-api/internal/platform/db"
)

// Open returns a fresh, migrated in-memory database that is closed when t ends.
func Open(t testing.TB) *db.DB {
	t.Helper()
	d, err := db.Open(db.SQLite, "file::memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if err := db.Migrate(context.Background(), d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return d
}

// Mock returns a MySQL-dialect handle backed by sqlmock.
func Mock(t testing.TB) (*db.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return db.New(conn, db.MySQL), mock
}
