package output

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// Table renders rows under header. Markdown mode gets a pipe table, text
// mode a box-drawn one.
func (r *Renderer) Table(header table.Row, rows []table.Row) {
	t := table.NewWriter()
	t.AppendHeader(header)
	t.AppendRows(rows)

	if r.EffectiveMode() == ModeMarkdown {
		r.Println(t.RenderMarkdown())
		return
	}

	if r.isTTY {
		t.SetStyle(table.StyleLight)
	} else {
		t.SetStyle(table.StyleDefault)
	}
	r.Println(t.Render())
}
