package periodq

import "fmt"

// Dialect carries everything engine specific: the driver name the caller
// opens its connection with, placeholder generation for bound arguments, and
// the expression builders for casting and period truncation. Expressions are
// driven by the closed Period/WeekStart enums, never by raw caller strings.
type Dialect struct {
	DriverName                string
	PlaceholderChar           string
	IncludeIndexInPlaceholder bool
	PlaceHolderGenerator      func(n int) []string
	CastTimestamp             func(column string) string
	PeriodStart               func(p Period, ws WeekStart, expr string) string
}

var Dialects = &struct {
	MySQL      *Dialect
	PostgreSQL *Dialect
	SQLite3    *Dialect
	DuckDB     *Dialect
}{
	MySQL: &Dialect{
		DriverName:                "mysql",
		PlaceholderChar:           "?",
		IncludeIndexInPlaceholder: false,
		PlaceHolderGenerator:      mySQLPlaceHolder,
		CastTimestamp:             castAsType("DATETIME"),
		PeriodStart:               mySQLPeriodStart,
	},
	PostgreSQL: &Dialect{
		DriverName:                "postgres",
		PlaceholderChar:           "$",
		IncludeIndexInPlaceholder: true,
		PlaceHolderGenerator:      postgresPlaceholder,
		CastTimestamp:             castAsType("TIMESTAMP"),
		PeriodStart:               dateTruncPeriodStart,
	},
	SQLite3: &Dialect{
		DriverName:                "sqlite3",
		PlaceholderChar:           "?",
		IncludeIndexInPlaceholder: false,
		PlaceHolderGenerator:      mySQLPlaceHolder,
		CastTimestamp:             sqliteCastTimestamp,
		PeriodStart:               sqlitePeriodStart,
	},
	DuckDB: &Dialect{
		DriverName:                "duckdb",
		PlaceholderChar:           "$",
		IncludeIndexInPlaceholder: true,
		PlaceHolderGenerator:      postgresPlaceholder,
		CastTimestamp:             castAsType("TIMESTAMP"),
		PeriodStart:               dateTruncPeriodStart,
	},
}

func castAsType(typ string) func(string) string {
	return func(column string) string {
		return fmt.Sprintf("CAST(%s AS %s)", column, typ)
	}
}

func sqliteCastTimestamp(column string) string {
	return fmt.Sprintf("DATETIME(%s)", column)
}

// DATE_TRUNC anchors weeks to monday. A sunday-anchored week is the
// monday-anchored week of the next day, shifted back one day.
func dateTruncPeriodStart(p Period, ws WeekStart, expr string) string {
	if p == PeriodWeek && ws == WeekStartSunday {
		return fmt.Sprintf("DATE_TRUNC('week', %s + INTERVAL '1 day') - INTERVAL '1 day'", expr)
	}
	return fmt.Sprintf("DATE_TRUNC('%s', %s)", p, expr)
}

// MySQL has no DATE_TRUNC, so truncation is date arithmetic. WEEKDAY counts
// from monday, DAYOFWEEK from sunday.
func mySQLPeriodStart(p Period, ws WeekStart, expr string) string {
	switch p {
	case PeriodMonth:
		return fmt.Sprintf("DATE_SUB(DATE(%s), INTERVAL DAYOFMONTH(%s) - 1 DAY)", expr, expr)
	case PeriodQuarter:
		return fmt.Sprintf("MAKEDATE(YEAR(%s), 1) + INTERVAL QUARTER(%s) - 1 QUARTER", expr, expr)
	default:
		if ws == WeekStartSunday {
			return fmt.Sprintf("DATE_SUB(DATE(%s), INTERVAL DAYOFWEEK(%s) - 1 DAY)", expr, expr)
		}
		return fmt.Sprintf("DATE_SUB(DATE(%s), INTERVAL WEEKDAY(%s) DAY)", expr, expr)
	}
}

// SQLite's 'weekday N' modifier only moves forward, so week truncation steps
// back six days first; 'weekday N' leaves a date already on that weekday
// untouched.
func sqlitePeriodStart(p Period, ws WeekStart, expr string) string {
	switch p {
	case PeriodMonth:
		return fmt.Sprintf("DATE(%s, 'start of month')", expr)
	case PeriodQuarter:
		return fmt.Sprintf("DATE(%s, 'start of month', '-' || ((CAST(STRFTIME('%%m', %s) AS INTEGER) - 1) %% 3) || ' months')", expr, expr)
	default:
		if ws == WeekStartSunday {
			return fmt.Sprintf("DATE(%s, '-6 days', 'weekday 0')", expr)
		}
		return fmt.Sprintf("DATE(%s, '-6 days', 'weekday 1')", expr)
	}
}
