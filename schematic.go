package periodq

import (
	"strings"

	"github.com/jedib0t/go-pretty/table"
)

// Schematic renders the stages of the built pipeline as a table, for
// debugging what a descriptor will ask the engine to do.
func (q *Query) Schematic() string {
	w := table.NewWriter()
	w.AppendHeader(table.Row{"Stage", "SQL"})
	w.AppendRow(table.Row{"SOURCE", q.table})
	w.AppendRow(table.Row{"FILTER", q.where.String()})
	w.AppendRow(table.Row{"DERIVE", q.periodExpr + " AS " + ColumnPeriodStart})
	w.AppendRow(table.Row{"GROUP BY", strings.Join(append([]string{ColumnPeriodStart}, q.groups...), ", ")})
	w.AppendRow(table.Row{"AGGREGATE", "COUNT(*) AS " + ColumnNumRecords})
	w.AppendRow(table.Row{"ORDER BY", ColumnPeriodStart + " ASC"})
	return w.Render()
}
