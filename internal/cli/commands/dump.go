package commands

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sqlitebrowser/internal/catalog"
	"github.com/leapstack-labs/sqlitebrowser/internal/cli/output"
	"github.com/leapstack-labs/sqlitebrowser/internal/snapshot"
	"github.com/spf13/cobra"
)

const noTablesText = "Database has no tables"

// NewDumpCommand creates the dump command.
func NewDumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <database> [table...]",
		Short: "Print table contents without the interactive browser",
		Long: `Print the label and rows of each table, the same grids the browser shows.

With no table arguments every user table is printed in name order. The
--page-size and --null-text settings apply as they do in the browser.`,
		Example: `  sqlitebrowser dump app.db
  sqlitebrowser dump app.db users orders -o csv
  sqlitebrowser dump app.db --page-size 20 --null-text NULL`,
		Args: cobra.MinimumNArgs(1),
		RunE: runDump,
	}
}

func runDump(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cmdCtx := NewCommandContext(cmd)

	h, err := cmdCtx.OpenDatabase(ctx, args[0])
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	schema, err := catalog.Load(ctx, h)
	if err != nil {
		return err
	}

	tables, err := selectTables(schema, args[1:])
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if len(tables) == 0 {
		r.Muted(noTablesText)
		return nil
	}

	opts := cmdCtx.Cfg.SnapshotOptions()
	for _, table := range tables {
		snap, err := snapshot.Read(ctx, h, table, schema.ColumnNames(table), opts)
		if err != nil {
			return err
		}
		cmdCtx.Logger.Debug("dumped table",
			slog.String("table", table),
			slog.Int("rows", len(snap.Rows)),
			slog.Bool("truncated", snap.Truncated))
		if err := writeSnapshot(r, snap); err != nil {
			return err
		}
	}
	return nil
}

// selectTables returns the requested tables in the order given, or every
// table of the schema when none are requested.
func selectTables(schema *catalog.Schema, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return schema.Tables, nil
	}
	for _, name := range requested {
		if !schema.Has(name) {
			return nil, fmt.Errorf("%w: %s", catalog.ErrUnknownTable, name)
		}
	}
	return requested, nil
}

func writeSnapshot(r *output.Renderer, snap *snapshot.Snapshot) error {
	mode := r.EffectiveMode()
	if mode != output.ModeCSV {
		r.Header(2, fmt.Sprintf("%s %s", snap.Table, rowSummary(snap)))
	} else {
		r.Println("# " + snap.Table)
	}
	if err := r.Grid(snap.Columns, snap.Rows); err != nil {
		return err
	}
	if mode != output.ModeCSV {
		r.Println("")
	}
	return nil
}

func rowSummary(snap *snapshot.Snapshot) string {
	n := len(snap.Rows)
	switch {
	case snap.Truncated:
		return fmt.Sprintf("(first %d rows)", n)
	case n == 1:
		return "(1 row)"
	default:
		return fmt.Sprintf("(%d rows)", n)
	}
}
