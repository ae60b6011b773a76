package periodq

import (
	"fmt"
	"strings"
)

// Output column names every built query exposes. Group columns keep their
// own names and may not collide with these.
const (
	ColumnPeriodStart = "period_start"
	ColumnNumRecords  = "num_records"
)

type whereClause struct {
	conds []string
}

func (w *whereClause) String() string {
	return strings.Join(w.conds, " AND ")
}

// Query is the lazy, unexecuted descriptor an Aggregation builds. It is
// immutable after Build and performs no I/O until one of the finishers in
// db.go runs it against a caller-owned connection.
type Query struct {
	id         string
	dialect    *Dialect
	table      string
	periodExpr string
	where      *whereClause
	groups     []string
	args       []interface{}
}

// ID identifies this descriptor in log lines.
func (q *Query) ID() string {
	return q.id
}

func (q *Query) Dialect() *Dialect {
	return q.dialect
}

// ToSql renders the descriptor. It is pure: rendering never mutates the
// query, so repeated calls and equal inputs give byte-equal output.
func (q *Query) ToSql() (string, []interface{}, error) {
	if q.table == "" {
		return "", nil, fmt.Errorf("table name cannot be empty")
	}

	selected := []string{fmt.Sprintf("%s AS %s", q.periodExpr, ColumnPeriodStart)}
	selected = append(selected, q.groups...)
	selected = append(selected, "COUNT(*) AS "+ColumnNumRecords)

	groupBy := append([]string{ColumnPeriodStart}, q.groups...)

	sections := []string{
		"SELECT " + strings.Join(selected, ", "),
		"FROM " + q.table,
		"WHERE " + q.where.String(),
		"GROUP BY " + strings.Join(groupBy, ", "),
		"ORDER BY " + ColumnPeriodStart + " ASC",
	}

	return strings.Join(sections, " "), q.args, nil
}
