// Package catalog discovers the user tables of a SQLite database and the
// ordered column descriptors of each one.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownTable is returned when a table name is not listed in the catalog.
var ErrUnknownTable = errors.New("table not found in catalog")

// Queryer is the read surface the loader needs from a database handle.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// The engine reserves the sqlite_ prefix for internal tables. The
// underscore is escaped so it is not a LIKE wildcard.
const tablesQuery = `
	SELECT name
	FROM sqlite_master
	WHERE type = 'table'
	  AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
	ORDER BY name
`

const verifyQuery = `
	SELECT count(*)
	FROM sqlite_master
	WHERE type = 'table'
	  AND name = ?
	  AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
`

// Column describes one column of a table as reported by PRAGMA table_info.
type Column struct {
	Position   int
	Name       string
	Type       string
	NotNull    bool
	Default    sql.NullString
	PrimaryKey int // 1-based position in the primary key, 0 if not part of it
}

// Attributes returns the auxiliary attributes of the column keyed by their
// PRAGMA table_info names. The column name itself is not included.
func (c Column) Attributes() map[string]any {
	var dflt any
	if c.Default.Valid {
		dflt = c.Default.String
	}
	notNull := 0
	if c.NotNull {
		notNull = 1
	}
	return map[string]any{
		"cid":        c.Position,
		"type":       c.Type,
		"notnull":    notNull,
		"dflt_value": dflt,
		"pk":         c.PrimaryKey,
	}
}

// Schema maps each user table to its columns in declaration order.
type Schema struct {
	// Tables holds the table names sorted alphabetically.
	Tables  []string
	Columns map[string][]Column
}

// Empty reports whether the database has no user tables.
func (s *Schema) Empty() bool {
	return s == nil || len(s.Tables) == 0
}

// Has reports whether table was present at load time.
func (s *Schema) Has(table string) bool {
	if s == nil {
		return false
	}
	for _, t := range s.Tables {
		if t == table {
			return true
		}
	}
	return false
}

// ColumnNames returns the ordered column names of table.
func (s *Schema) ColumnNames(table string) []string {
	cols := s.Columns[table]
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// Load reads the catalog and builds a fresh Schema. A database without user
// tables yields an empty Schema and no error.
func Load(ctx context.Context, q Queryer) (*Schema, error) {
	tables, err := ListTables(ctx, q)
	if err != nil {
		return nil, err
	}

	schema := &Schema{
		Tables:  tables,
		Columns: make(map[string][]Column, len(tables)),
	}
	for _, table := range tables {
		cols, err := tableInfo(ctx, q, table)
		if err != nil {
			return nil, err
		}
		schema.Columns[table] = cols
	}
	return schema, nil
}

// ListTables returns the user table names, alphabetically.
func ListTables(ctx context.Context, q Queryer) ([]string, error) {
	rows, err := q.QueryContext(ctx, tablesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	// ORDER BY follows the column collation; keep byte order regardless.
	sort.Strings(tables)
	return tables, nil
}

// Verify checks that table is a user table listed in the catalog right now.
// Callers must verify any name before interpolating it into SQL text.
func Verify(ctx context.Context, q Queryer, table string) error {
	rows, err := q.QueryContext(ctx, verifyQuery, table)
	if err != nil {
		return fmt.Errorf("failed to verify table %q: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return fmt.Errorf("failed to verify table %q: %w", table, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to verify table %q: %w", table, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return nil
}

func tableInfo(ctx context.Context, q Queryer, table string) ([]Column, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", QuoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var cols []Column
	for rows.Next() {
		var (
			c       Column
			colType sql.NullString
			notNull int
		)
		if err := rows.Scan(&c.Position, &c.Name, &colType, &notNull, &c.Default, &c.PrimaryKey); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		c.Type = colType.String
		c.NotNull = notNull != 0
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	sort.SliceStable(cols, func(i, j int) bool { return cols[i].Position < cols[j].Position })
	return cols, nil
}

// QuoteIdent quotes a SQLite identifier with double quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
