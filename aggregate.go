package periodq

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Aggregation describes a count-of-records-per-period aggregation over one
// table. Configure it fluently, then Build a lazy Query from it. The zero
// configuration counts per monday-anchored week over a text date column
// using the PostgreSQL dialect.
type Aggregation struct {
	table      string
	dateColumn string
	period     Period
	weekStart  WeekStart
	dateRepr   DateRepresentation
	groupBy    []string
	dialect    *Dialect
	since      *time.Time
	until      *time.Time
}

// Count starts an aggregation counting rows of table bucketed by dateColumn.
func Count(table string, dateColumn string) *Aggregation {
	return &Aggregation{
		table:      table,
		dateColumn: dateColumn,
		period:     PeriodWeek,
		weekStart:  WeekStartMonday,
		dateRepr:   DateString,
		dialect:    Dialects.PostgreSQL,
	}
}

func (a *Aggregation) Period(p Period) *Aggregation {
	a.period = p
	return a
}

func (a *Aggregation) WeekStart(ws WeekStart) *Aggregation {
	a.weekStart = ws
	return a
}

func (a *Aggregation) DateRepresentation(r DateRepresentation) *Aggregation {
	a.dateRepr = r
	return a
}

// GroupBy appends columns to the grouping key, after period_start, in the
// given order.
func (a *Aggregation) GroupBy(columns ...string) *Aggregation {
	a.groupBy = append(a.groupBy, columns...)
	return a
}

func (a *Aggregation) Dialect(d *Dialect) *Aggregation {
	a.dialect = d
	return a
}

// Since keeps only rows with dates at or after t.
func (a *Aggregation) Since(t time.Time) *Aggregation {
	a.since = &t
	return a
}

// Until keeps only rows with dates strictly before t.
func (a *Aggregation) Until(t time.Time) *Aggregation {
	a.until = &t
	return a
}

// Build validates the aggregation and returns its lazy query descriptor.
// Every validation failure wraps ErrInvalidArgument and happens before any
// SQL is put together; errors about the data itself (missing columns, bad
// date text) only surface when the caller executes the query.
func (a *Aggregation) Build() (*Query, error) {
	if a.table == "" {
		return nil, fmt.Errorf("%w: table name cannot be empty", ErrInvalidArgument)
	}
	if a.dateColumn == "" {
		return nil, fmt.Errorf("%w: date column cannot be empty", ErrInvalidArgument)
	}

	period, err := ParsePeriod(string(a.period))
	if err != nil {
		return nil, err
	}

	weekStart := WeekStartMonday
	if period == PeriodWeek {
		weekStart, err = ParseWeekStart(string(a.weekStart))
		if err != nil {
			return nil, err
		}
	}

	repr, err := ParseDateRepresentation(string(a.dateRepr))
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for _, column := range a.groupBy {
		if column == "" {
			return nil, fmt.Errorf("%w: group column cannot be empty", ErrInvalidArgument)
		}
		switch column {
		case a.dateColumn, ColumnPeriodStart, ColumnNumRecords:
			return nil, fmt.Errorf("%w: group column %q collides with an output column", ErrInvalidArgument, column)
		}
		if seen[column] {
			return nil, fmt.Errorf("%w: duplicate group column %q", ErrInvalidArgument, column)
		}
		seen[column] = true
	}

	dialect := a.dialect
	if dialect == nil {
		dialect = Dialects.PostgreSQL
	}

	expr := a.dateColumn
	if repr == DateString {
		expr = dialect.CastTimestamp(expr)
	}

	where := &whereClause{conds: []string{a.dateColumn + " IS NOT NULL"}}
	var ops []string
	var args []interface{}
	if a.since != nil {
		ops = append(ops, ">=")
		args = append(args, *a.since)
	}
	if a.until != nil {
		ops = append(ops, "<")
		args = append(args, *a.until)
	}
	phs := dialect.PlaceHolderGenerator(len(args))
	for i, op := range ops {
		where.conds = append(where.conds, fmt.Sprintf("%s %s %s", expr, op, phs[i]))
	}

	q := &Query{
		id:         uuid.NewString(),
		dialect:    dialect,
		table:      a.table,
		periodExpr: dialect.PeriodStart(period, weekStart, expr),
		where:      where,
		groups:     append([]string{}, a.groupBy...),
		args:       args,
	}

	logger.Debugf("built query %s: count per %s of %s.%s", q.id, period, a.table, a.dateColumn)
	return q, nil
}
