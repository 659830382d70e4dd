package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/leapstack-labs/sqlitebrowser/internal/snapshot"
)

// maxColumnWidth caps a grid column; longer cells are truncated with "…".
const maxColumnWidth = 40

// lineBreaks keeps a multi-line cell on one grid row with its breaks visible.
var lineBreaks = strings.NewReplacer("\r\n", "↵", "\n", "↵", "\r", "↵", "\t", " ")

// Pane is the label and grid rendered for one table.
type Pane struct {
	Label     string
	Grid      table.Model
	Rows      int
	Truncated bool
}

// BuildPanes turns snapshots into panes, one per table, keeping their order.
// Each grid has one text column per descriptor entry, titled with the
// column name and bound to that column's position in the row.
func BuildPanes(snaps []*snapshot.Snapshot) []Pane {
	panes := make([]Pane, 0, len(snaps))
	for _, snap := range snaps {
		panes = append(panes, buildPane(snap))
	}
	return panes
}

func buildPane(snap *snapshot.Snapshot) Pane {
	cells := make([][]string, len(snap.Rows))
	for i, r := range snap.Rows {
		cells[i] = make([]string, len(r))
		for j, v := range r {
			cells[i][j] = lineBreaks.Replace(v)
		}
	}

	cols := make([]table.Column, len(snap.Columns))
	for i, name := range snap.Columns {
		cols[i] = table.Column{Title: name, Width: columnWidth(name, i, cells)}
	}

	rows := make([]table.Row, len(cells))
	for i, r := range cells {
		rows[i] = table.Row(r)
	}

	grid := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		// Styles first: WithHeight subtracts the header height as styled.
		table.WithStyles(gridStyles()),
		// Header and its rule take two lines; every row stays visible and
		// the surrounding viewport does the scrolling.
		table.WithHeight(len(rows)+2),
	)

	return Pane{
		Label:     snap.Table,
		Grid:      grid,
		Rows:      len(rows),
		Truncated: snap.Truncated,
	}
}

func columnWidth(title string, pos int, rows [][]string) int {
	w := lipgloss.Width(title)
	for _, r := range rows {
		if pos < len(r) {
			w = max(w, lipgloss.Width(r[pos]))
		}
	}
	return min(max(w, 1), maxColumnWidth)
}

// View renders the label line followed by the grid.
func (p Pane) View() string {
	count := humanize.Comma(int64(p.Rows)) + " rows"
	if p.Rows == 1 {
		count = "1 row"
	}
	if p.Truncated {
		count = fmt.Sprintf("first %s rows", humanize.Comma(int64(p.Rows)))
	}
	label := labelStyle.Render(p.Label) + " " + dimStyle.Render("("+count+")")
	return paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, label, p.Grid.View()))
}

// RenderContainer stacks the panes vertically and returns the rendered
// text together with the line offset at which each pane starts.
func RenderContainer(panes []Pane) (string, []int) {
	if len(panes) == 0 {
		return "", nil
	}
	views := make([]string, len(panes))
	offsets := make([]int, len(panes))
	line := 0
	for i, p := range panes {
		views[i] = p.View()
		offsets[i] = line
		line += lipgloss.Height(views[i])
	}
	return strings.Join(views, "\n"), offsets
}
