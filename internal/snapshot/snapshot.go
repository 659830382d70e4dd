// Package snapshot materializes table rows as text for display.
//
// A Snapshot is a disposable copy: rows carry no identity and every cell
// is already converted to its textual form.
package snapshot

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/sqlitebrowser/internal/catalog"
)

// DefaultNullText is shown for NULL cells when Options.NullText is empty.
const DefaultNullText = "None"

// Options controls how much of a table is read and how NULL is shown.
type Options struct {
	// Limit caps the number of rows read. Zero reads the whole table.
	Limit    int
	NullText string
}

func (o Options) nullText() string {
	if o.NullText == "" {
		return DefaultNullText
	}
	return o.NullText
}

// Snapshot is the text-coerced content of one table.
type Snapshot struct {
	Table   string
	Columns []string
	Rows    [][]string
	// Truncated is set when Limit stopped the read before the last row.
	Truncated bool
}

// Read loads table into memory. columns fixes the order of the cells in
// each row, normally the table's descriptor order from the catalog.
func Read(ctx context.Context, q catalog.Queryer, table string, columns []string, opts Options) (*Snapshot, error) {
	snap := &Snapshot{Table: table, Columns: columns}
	truncated, err := Scan(ctx, q, table, columns, opts, func(row []string) error {
		snap.Rows = append(snap.Rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	snap.Truncated = truncated
	return snap, nil
}

// ReadAll reads every table of schema, in schema order.
func ReadAll(ctx context.Context, q catalog.Queryer, schema *catalog.Schema, opts Options) ([]*Snapshot, error) {
	if schema.Empty() {
		return nil, nil
	}
	snaps := make([]*Snapshot, 0, len(schema.Tables))
	for _, table := range schema.Tables {
		snap, err := Read(ctx, q, table, schema.ColumnNames(table), opts)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// Scan streams the rows of table to fn, one text row at a time. It reports
// whether the read stopped early because of Options.Limit. An error from fn
// aborts the scan and is returned.
//
// The table name is checked against the catalog before it is placed in the
// query text.
func Scan(ctx context.Context, q catalog.Queryer, table string, columns []string, opts Options, fn func(row []string) error) (bool, error) {
	if err := catalog.Verify(ctx, q, table); err != nil {
		return false, err
	}

	query := "SELECT * FROM " + catalog.QuoteIdent(table)
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit+1)
	}

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return false, fmt.Errorf("failed to read table %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	resultCols, err := rows.Columns()
	if err != nil {
		return false, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	order := columnOrder(columns, resultCols)
	null := opts.nullText()

	values := make([]any, len(resultCols))
	ptrs := make([]any, len(resultCols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	n := 0
	for rows.Next() {
		if opts.Limit > 0 && n == opts.Limit {
			return true, nil
		}
		if err := rows.Scan(ptrs...); err != nil {
			return false, fmt.Errorf("failed to scan row of %s: %w", table, err)
		}
		row := make([]string, len(order))
		for i, idx := range order {
			if idx < 0 {
				row[i] = null
				continue
			}
			row[i] = FormatValue(values[idx], null)
		}
		if err := fn(row); err != nil {
			return false, err
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("failed to read table %s: %w", table, err)
	}
	return false, nil
}

// columnOrder maps each wanted column to its index in the result set,
// matching by name and falling back to position. -1 means absent.
func columnOrder(want, got []string) []int {
	if len(want) == 0 {
		order := make([]int, len(got))
		for i := range got {
			order[i] = i
		}
		return order
	}

	byName := make(map[string]int, len(got))
	for i, name := range got {
		if _, seen := byName[name]; !seen {
			byName[name] = i
		}
	}

	order := make([]int, len(want))
	for i, name := range want {
		switch idx, ok := byName[name]; {
		case ok:
			order[i] = idx
		case i < len(got):
			order[i] = i
		default:
			order[i] = -1
		}
	}
	return order
}
