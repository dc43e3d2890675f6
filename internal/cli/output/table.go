package output

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// Table renders rows under a header: a light box table in text mode and a
// pipe table in markdown mode. JSON mode writes nothing.
func (r *Renderer) Table(header []string, rows [][]string) {
	mode := r.EffectiveMode()
	if mode == ModeJSON {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}

	if mode == ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}
