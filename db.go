package periodq

import (
	"context"
	"database/sql"
	"time"

	//Drivers
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/marcboeker/go-duckdb"
	_ "github.com/mattn/go-sqlite3"
)

// PeriodCount is one result row: the bucket start, the values of the group
// columns keyed by column name, and the record count for that bucket.
type PeriodCount struct {
	PeriodStart time.Time
	Groups      map[string]interface{}
	NumRecords  int64
}

// QueryContext runs the descriptor against db and hands back the raw rows.
// The connection is caller-owned; this package never opens one. Driver
// errors pass through unmodified.
func (q *Query) QueryContext(ctx context.Context, db *sql.DB) (*sql.Rows, error) {
	s, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	logger.Debugf("executing query %s: %s %v", q.id, s, args)
	return db.QueryContext(ctx, s, args...)
}

func (q *Query) Query(db *sql.DB) (*sql.Rows, error) {
	return q.QueryContext(context.Background(), db)
}

// BindContext runs the descriptor and scans all rows into out, a pointer to
// a slice of structs (see Bind).
func (q *Query) BindContext(ctx context.Context, db *sql.DB, out interface{}) error {
	rows, err := q.QueryContext(ctx, db)
	if err != nil {
		return err
	}
	defer rows.Close()
	return Bind(rows, out)
}

func (q *Query) Bind(db *sql.DB, out interface{}) error {
	return q.BindContext(context.Background(), db, out)
}

// CountsContext runs the descriptor and materializes every bucket, ascending
// by period start as the query orders them.
func (q *Query) CountsContext(ctx context.Context, db *sql.DB) ([]PeriodCount, error) {
	rows, err := q.QueryContext(ctx, db)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []PeriodCount
	for rows.Next() {
		values := make([]interface{}, len(columns))
		scanInto := make([]interface{}, len(columns))
		for i := range values {
			scanInto[i] = &values[i]
		}
		if err := rows.Scan(scanInto...); err != nil {
			return nil, err
		}

		pc := PeriodCount{Groups: map[string]interface{}{}}
		for i, column := range columns {
			switch column {
			case ColumnPeriodStart:
				pc.PeriodStart, err = toTime(values[i])
			case ColumnNumRecords:
				pc.NumRecords, err = toInt64(values[i])
			default:
				pc.Groups[column] = values[i]
			}
			if err != nil {
				return nil, err
			}
		}
		out = append(out, pc)
	}

	return out, rows.Err()
}

func (q *Query) Counts(db *sql.DB) ([]PeriodCount, error) {
	return q.CountsContext(context.Background(), db)
}
