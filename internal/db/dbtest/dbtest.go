// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"expensetracker/internal/db"
)

// Open returns a migrated in-memory SQLite database closed at test cleanup.
// The pool is pinned to one connection so every query sees the same memory
// database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(db.Options{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, db.Migrate(gdb), "failed to migrate test database")

	t.Cleanup(func() {
		_ = db.Close(gdb)
	})
	return gdb
}
