package testutil

import (
	"database/sql"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/recallkit/recallkit/internal/db"
	"github.com/recallkit/recallkit/internal/logger"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	// Keep migration noise out of test output.
	logger.SetDefault(logger.New(logger.WithOutput(io.Discard)))

	d, err := db.Open(":memory:")
	require.NoError(t, err)
	return d.DB
}

// MustClose closes the database, failing the test on error.
func MustClose(t *testing.T, db *sql.DB) {
	t.Helper()
	require.NoError(t, db.Close())
}
