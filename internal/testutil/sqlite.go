package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	// sqlite driver for fixture databases.
	_ "modernc.org/sqlite"
)

// UsersOrdersSchema is the two-table fixture used across packages:
// users has one row, orders has none.
const UsersOrdersSchema = `
	CREATE TABLE users (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	);
	CREATE TABLE orders (
		id INTEGER PRIMARY KEY,
		user_id INTEGER REFERENCES users(id)
	);
	INSERT INTO users (id, name) VALUES (1, 'Ann');
`

// NewSQLiteFile creates a database file in a temp dir, runs the given
// statements against it and returns its path.
func NewSQLiteFile(t testing.TB, statements ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	// Force the file into existence even when no statements are given.
	_, err = db.ExecContext(ctx, "PRAGMA user_version = 1")
	require.NoError(t, err)

	for _, stmt := range statements {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
	return path
}
