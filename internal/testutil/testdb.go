package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/questbot/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a migrated in-memory database holding empty kv_store and
// focus_sessions tables. It is closed on cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err, "open test database")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
