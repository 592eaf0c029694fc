package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"customid/internal/stashids"
)

// column describes one table column. maxWidth of zero leaves it unbounded.
type column struct {
	title    string
	align    text.Align
	maxWidth int
}

var stashIDColumns = []column{
	{title: "#", align: text.AlignRight},
	{title: "Endpoint", align: text.AlignLeft},
	{title: "Stash ID", align: text.AlignLeft},
}

var historyColumns = []column{
	{title: "Time", align: text.AlignLeft},
	{title: "Scene", align: text.AlignRight},
	{title: "Endpoint", align: text.AlignLeft},
	{title: "Stash ID", align: text.AlignLeft},
	{title: "Outcome", align: text.AlignLeft, maxWidth: 72},
}

func renderTable(columns []column, rows [][]string, footer ...string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, 0, len(columns))
	configs := make([]table.ColumnConfig, 0, len(columns))
	for i, col := range columns {
		header = append(header, col.title)
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       col.align,
			AlignHeader: text.AlignLeft,
			WidthMax:    col.maxWidth,
		})
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	if len(footer) > 0 {
		f := make(table.Row, len(columns))
		for i := range f {
			if i < len(footer) {
				f[i] = footer[i]
			} else {
				f[i] = ""
			}
		}
		tw.AppendFooter(f)
	}

	return tw.Render()
}

// renderStashIDs lists a scene's stash IDs in stored order with a count footer.
func renderStashIDs(ids stashids.Set) string {
	rows := make([][]string, 0, len(ids))
	for i, rec := range ids {
		rows = append(rows, []string{strconv.Itoa(i + 1), rec.Endpoint, rec.StashID})
	}
	return renderTable(stashIDColumns, rows, "", "Total", strconv.Itoa(len(ids)))
}
