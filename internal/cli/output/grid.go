package output

import (
	"encoding/csv"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Grid writes a header and rows in the renderer's effective mode.
// Values are written as given; callers format NULL and blobs beforehand.
func (r *Renderer) Grid(header []string, rows [][]string) error {
	if r.EffectiveMode() == ModeCSV {
		return r.csvGrid(header, rows)
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeMarkdown {
		r.Println(t.RenderMarkdown())
	} else {
		r.Println(t.Render())
	}
	return nil
}

// csvGrid writes RFC 4180 records so cell text survives a round trip.
func (r *Renderer) csvGrid(header []string, rows [][]string) error {
	w := csv.NewWriter(r.out)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}
