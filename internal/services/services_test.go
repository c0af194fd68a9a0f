package services

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/avelin/snapfeed-be/internal/database"
	"github.com/stretchr/testify/require"
)

// newTestDB opens a fresh migrated database in a per-test temp directory.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}
