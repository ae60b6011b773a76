package periodq

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidArgument marks every validation failure raised before a query is
// built. Errors surfaced later, while a built query executes, come straight
// from the driver and are never wrapped.
var ErrInvalidArgument = errors.New("invalid argument")

// Period is a fixed calendar bucket a date gets truncated into.
type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
)

// WeekStart picks the weekday a week bucket is anchored to. It only matters
// for PeriodWeek.
type WeekStart string

const (
	WeekStartMonday WeekStart = "monday"
	WeekStartSunday WeekStart = "sunday"
)

// DateRepresentation tells how the date column is stored in the source.
type DateRepresentation string

const (
	// DateString means the column holds dates as text and gets cast to a
	// timestamp inside the query.
	DateString DateRepresentation = "string"
	// DateTimestamp means the column already has a timestamp type.
	DateTimestamp DateRepresentation = "timestamp"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodWeek, PeriodMonth, PeriodQuarter:
		return p, nil
	}
	return "", fmt.Errorf("%w: period should be one of week, month, quarter, got %q", ErrInvalidArgument, s)
}

func ParseWeekStart(s string) (WeekStart, error) {
	switch ws := WeekStart(strings.ToLower(strings.TrimSpace(s))); ws {
	case WeekStartMonday, WeekStartSunday:
		return ws, nil
	}
	return "", fmt.Errorf("%w: week start should be either monday or sunday, got %q", ErrInvalidArgument, s)
}

func ParseDateRepresentation(s string) (DateRepresentation, error) {
	switch r := DateRepresentation(strings.ToLower(strings.TrimSpace(s))); r {
	case DateString, DateTimestamp:
		return r, nil
	}
	return "", fmt.Errorf("%w: date representation should be either string or timestamp, got %q", ErrInvalidArgument, s)
}

// Truncate maps t to the start instant of the period containing it, in t's
// location. ws is ignored unless p is PeriodWeek. It mirrors the SQL the
// dialects emit, so callers can compute bucket keys without a round trip.
func (p Period) Truncate(t time.Time, ws WeekStart) time.Time {
	y, m, d := t.Date()
	switch p {
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	case PeriodQuarter:
		qm := time.Month(((int(m)-1)/3)*3 + 1)
		return time.Date(y, qm, 1, 0, 0, 0, 0, t.Location())
	default:
		day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
		offset := int(day.Weekday())
		if ws != WeekStartSunday {
			offset = (offset + 6) % 7
		}
		return day.AddDate(0, 0, -offset)
	}
}
