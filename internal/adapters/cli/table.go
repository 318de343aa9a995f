package cli

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column is one table column; numeric columns align right
type column struct {
	title   string
	numeric bool
}

var (
	modelColumns = []column{{title: "Model"}, {title: "Size", numeric: true}, {title: "Status"}, {title: "Notes"}}
	cacheColumns = []column{{title: "Cache"}, {title: "Value", numeric: true}}
	depsColumns  = []column{{title: "Dependency"}, {title: "Status"}, {title: "Path"}}
)

// writeTable renders rows under cols to out. Headers are printed as
// given and short rows are padded with empty cells.
func writeTable(out io.Writer, cols []column, rows [][]string) {
	if len(cols) == 0 {
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(cols))
	configs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		header[i] = c.title
		configs[i] = table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft}
		if c.numeric {
			configs[i].Align = text.AlignRight
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(cols))
		for i := range r {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	tw.Render()
}
