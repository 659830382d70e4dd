package commands

import (
	"strconv"

	"github.com/leapstack-labs/sqlitebrowser/internal/catalog"
	"github.com/leapstack-labs/sqlitebrowser/internal/cli/output"
	"github.com/spf13/cobra"
)

// schemaHeader matches the column names reported by PRAGMA table_info.
var schemaHeader = []string{"cid", "name", "type", "notnull", "dflt_value", "pk"}

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables <database>",
		Short: "List tables and their columns",
		Long: `Print every user table of a SQLite database in name order, with the
attributes of each column as reported by PRAGMA table_info.

Internal sqlite_* tables are not listed.`,
		Example: `  sqlitebrowser tables app.db
  sqlitebrowser tables app.db -o markdown`,
		Args: cobra.ExactArgs(1),
		RunE: runTables,
	}
}

func runTables(cmd *cobra.Command, args []string) error {
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

	return writeSchema(cmdCtx.Renderer, schema)
}

func writeSchema(r *output.Renderer, schema *catalog.Schema) error {
	if schema.Empty() {
		r.Muted(noTablesText)
		return nil
	}

	for _, table := range schema.Tables {
		r.Header(2, table)

		cols := schema.Columns[table]
		rows := make([][]string, 0, len(cols))
		for _, c := range cols {
			rows = append(rows, []string{
				strconv.Itoa(c.Position),
				c.Name,
				c.Type,
				boolText(c.NotNull),
				c.Default.String,
				strconv.Itoa(c.PrimaryKey),
			})
		}
		if err := r.Grid(schemaHeader, rows); err != nil {
			return err
		}
	}
	return nil
}

func boolText(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
