// Package database owns the single live connection to a SQLite file.
//
// A Handle wraps *sql.DB together with the path and driver it was opened
// with, so the browser can close and reopen the same file on reload or
// replace it with another file entirely.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	// SQLite drivers. "sqlite" is pure Go, "sqlite3" needs cgo.
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Supported driver names.
const (
	DriverModernc = "sqlite"
	DriverCGO     = "sqlite3"
)

// DefaultDriver is used when Options.Driver is empty.
const DefaultDriver = DriverModernc

// Options controls how a database file is opened.
type Options struct {
	Driver   string
	ReadOnly bool
	Logger   *slog.Logger
}

// Handle is a live connection to exactly one SQLite file.
type Handle struct {
	db     *sql.DB
	path   string
	opts   Options
	logger *slog.Logger
}

// ValidDriver reports whether name is a registered SQLite driver.
func ValidDriver(name string) bool {
	return name == DriverModernc || name == DriverCGO
}

// Open opens path and probes the catalog so that a missing, unreadable or
// non-database file fails here rather than on the first table read.
func Open(ctx context.Context, path string, opts Options) (*Handle, error) {
	if opts.Driver == "" {
		opts.Driver = DefaultDriver
	}
	if !ValidDriver(opts.Driver) {
		return nil, fmt.Errorf("unknown sqlite driver %q (expected %q or %q)", opts.Driver, DriverModernc, DriverCGO)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("database file does not exist: %s\nHint: check the path or press ctrl+o to choose another file", path)
		}
		return nil, fmt.Errorf("failed to stat database file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("database path is a directory: %s", path)
	}

	db, err := sql.Open(opts.Driver, dsn(path, opts.ReadOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One handle, one connection: all reads are issued from the UI loop.
	db.SetMaxOpenConns(1)

	if err := probe(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to read %s: %w\nHint: the file may not be a SQLite database", path, err)
	}

	logger.Debug("opened database",
		slog.String("path", path),
		slog.String("driver", opts.Driver),
		slog.Bool("read_only", opts.ReadOnly))

	return &Handle{db: db, path: path, opts: opts, logger: logger}, nil
}

// dsn builds a SQLite URI filename. mode=rw rather than rwc so that a
// typo never creates an empty database.
func dsn(path string, readOnly bool) string {
	mode := "rw"
	if readOnly {
		mode = "ro"
	}
	u := url.URL{Scheme: "file", Opaque: (&url.URL{Path: path}).EscapedPath()}
	q := url.Values{}
	q.Set("mode", mode)
	u.RawQuery = q.Encode()
	return u.String()
}

func probe(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	var n int
	return db.QueryRowContext(ctx, "SELECT count(*) FROM sqlite_master").Scan(&n)
}

// Path returns the file the handle was opened with.
func (h *Handle) Path() string {
	return h.path
}

// Options returns the options the handle was opened with.
func (h *Handle) Options() Options {
	return h.opts
}

// DB returns the underlying connection pool.
func (h *Handle) DB() *sql.DB {
	return h.db
}

// QueryContext runs a read against the open database.
func (h *Handle) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if h.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	return h.db.QueryContext(ctx, query, args...)
}

// Size returns the current size of the database file in bytes, or -1 if
// it cannot be determined.
func (h *Handle) Size() int64 {
	info, err := os.Stat(h.path)
	if err != nil {
		return -1
	}
	return info.Size()
}

// Close releases the connection. Calling Close twice is safe.
func (h *Handle) Close() error {
	if h.db == nil {
		return nil
	}
	h.logger.Debug("closing database", slog.String("path", h.path))
	err := h.db.Close()
	h.db = nil
	return err
}

// Reopen closes the connection and opens the same file again with the
// same options. On failure the handle is left closed.
func (h *Handle) Reopen(ctx context.Context) error {
	if err := h.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	fresh, err := Open(ctx, h.path, h.opts)
	if err != nil {
		return err
	}
	h.db = fresh.db
	return nil
}
