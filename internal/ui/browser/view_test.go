package browser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlitebrowser/internal/snapshot"
)

func TestBuildPanes(t *testing.T) {
	snaps := []*snapshot.Snapshot{
		{Table: "orders", Columns: []string{"id", "user_id"}},
		{Table: "users", Columns: []string{"id", "name"}, Rows: [][]string{{"1", "Ann"}}},
	}

	panes := BuildPanes(snaps)
	require.Len(t, panes, 2)

	for i, p := range panes {
		assert.Equal(t, snaps[i].Table, p.Label)
		require.Len(t, p.Grid.Columns(), len(snaps[i].Columns))
		for j, c := range p.Grid.Columns() {
			assert.Equal(t, snaps[i].Columns[j], c.Title, "header %d of %s", j, p.Label)
		}
	}

	assert.Equal(t, 0, panes[0].Rows)
	assert.Equal(t, 1, panes[1].Rows)
	assert.Equal(t, "Ann", panes[1].Grid.Rows()[0][1])
}

func TestBuildPanes_Empty(t *testing.T) {
	assert.Empty(t, BuildPanes(nil))

	content, offsets := RenderContainer(nil)
	assert.Empty(t, content)
	assert.Empty(t, offsets)
}

func TestBuildPanes_GridHeight(t *testing.T) {
	for _, n := range []int{1, 3} {
		rows := make([][]string, n)
		for i := range rows {
			rows[i] = []string{fmt.Sprint(i)}
		}
		panes := BuildPanes([]*snapshot.Snapshot{{Table: "t", Columns: []string{"n"}, Rows: rows}})

		grid := panes[0].Grid.View()
		assert.Equal(t, n+2, lipgloss.Height(grid), "header, rule and %d rows", n)
		lines := strings.Split(grid, "\n")
		assert.NotEmpty(t, strings.TrimSpace(lines[len(lines)-1]), "no trailing blank line")
	}
}

func TestBuildPanes_MultiLineCell(t *testing.T) {
	snap := &snapshot.Snapshot{
		Table:   "notes",
		Columns: []string{"body"},
		Rows:    [][]string{{"first\nsecond"}, {"a\r\nb"}},
	}

	panes := BuildPanes([]*snapshot.Snapshot{snap})
	rows := panes[0].Grid.Rows()
	assert.Equal(t, "first↵second", rows[0][0])
	assert.Equal(t, "a↵b", rows[1][0])
	assert.Equal(t, "first\nsecond", snap.Rows[0][0], "snapshot text is left as read")
	assert.Equal(t, lipgloss.Width("first↵second"), panes[0].Grid.Columns()[0].Width)
}

func TestColumnWidth(t *testing.T) {
	rows := [][]string{{"a", "short"}, {"bb", strings.Repeat("x", 100)}}

	assert.Equal(t, 2, columnWidth("id", 0, rows))
	assert.Equal(t, maxColumnWidth, columnWidth("body", 1, rows))
	assert.Equal(t, 8, columnWidth("longname", 5, rows))
	assert.Equal(t, 1, columnWidth("", 5, nil))
}

func TestPane_View(t *testing.T) {
	panes := BuildPanes([]*snapshot.Snapshot{
		{Table: "users", Columns: []string{"id", "name"}, Rows: [][]string{{"1", "Ann"}}},
		{Table: "big", Columns: []string{"n"}, Rows: [][]string{{"1"}, {"2"}}, Truncated: true},
	})

	users := panes[0].View()
	assert.Contains(t, users, "users")
	assert.Contains(t, users, "(1 row)")
	assert.Contains(t, users, "name")
	assert.Contains(t, users, "Ann")

	assert.Contains(t, panes[1].View(), "(first 2 rows)")
}

func TestRenderContainer_Offsets(t *testing.T) {
	panes := BuildPanes([]*snapshot.Snapshot{
		{Table: "a", Columns: []string{"x"}, Rows: [][]string{{"1"}, {"2"}}},
		{Table: "b", Columns: []string{"y"}},
	})

	content, offsets := RenderContainer(panes)
	require.Len(t, offsets, 2)
	assert.Equal(t, 0, offsets[0])
	assert.Equal(t, lipgloss.Height(panes[0].View()), offsets[1])

	lines := strings.Split(content, "\n")
	assert.Contains(t, lines[offsets[1]], "b")
}
