package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlitebrowser/internal/testutil"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	path := testutil.NewSQLiteFile(t, testutil.UsersOrdersSchema)

	h, err := Open(ctx, path, Options{ReadOnly: true, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	defer func() { _ = h.Close() }()

	assert.Equal(t, path, h.Path())
	assert.Equal(t, DefaultDriver, h.Options().Driver)
	assert.Positive(t, h.Size())

	rows, err := h.QueryContext(ctx, "SELECT name FROM users")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()
	require.True(t, rows.Next())
	var name string
	require.NoError(t, rows.Scan(&name))
	assert.Equal(t, "Ann", name)
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()
	notDB := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notDB, []byte("this is certainly not a sqlite database file, just text"), 0o600))

	tests := []struct {
		name      string
		path      string
		opts      Options
		errSubstr string
	}{
		{
			name:      "missing file",
			path:      filepath.Join(dir, "missing.db"),
			errSubstr: "does not exist",
		},
		{
			name:      "directory",
			path:      dir,
			errSubstr: "is a directory",
		},
		{
			name:      "not a database",
			path:      notDB,
			opts:      Options{ReadOnly: true},
			errSubstr: "may not be a SQLite database",
		},
		{
			name:      "unknown driver",
			path:      notDB,
			opts:      Options{Driver: "postgres"},
			errSubstr: "unknown sqlite driver",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Open(context.Background(), tt.path, tt.opts)
			require.Error(t, err)
			assert.Nil(t, h)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestOpen_ReadOnlyRejectsWrites(t *testing.T) {
	path := testutil.NewSQLiteFile(t, testutil.UsersOrdersSchema)

	h, err := Open(context.Background(), path, Options{ReadOnly: true})
	require.NoError(t, err)
	defer func() { _ = h.Close() }()

	_, err = h.DB().ExecContext(context.Background(), "INSERT INTO users (id, name) VALUES (2, 'Bob')")
	assert.Error(t, err)
}

func TestHandle_Reopen(t *testing.T) {
	ctx := context.Background()
	path := testutil.NewSQLiteFile(t, testutil.UsersOrdersSchema)

	h, err := Open(ctx, path, Options{})
	require.NoError(t, err)
	first := h.DB()

	require.NoError(t, h.Reopen(ctx))
	defer func() { _ = h.Close() }()

	assert.NotSame(t, first, h.DB(), "reopen should replace the connection")
	assert.Error(t, first.PingContext(ctx), "old connection should be closed")
	assert.NoError(t, h.DB().PingContext(ctx))
}

func TestHandle_CloseTwice(t *testing.T) {
	path := testutil.NewSQLiteFile(t)

	h, err := Open(context.Background(), path, Options{})
	require.NoError(t, err)

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())

	_, err = h.QueryContext(context.Background(), "SELECT 1")
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "file:data/app.db?mode=ro", dsn("data/app.db", true))
	assert.Equal(t, "file:/tmp/app.db?mode=rw", dsn("/tmp/app.db", false))
	assert.Equal(t, "file:my%20data.db?mode=ro", dsn("my data.db", true))
}
