package periodq

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounts(t *testing.T) {
	t.Run("materializes buckets ascending by period start", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		q, err := Count("visits", "visited_at").
			Period(PeriodMonth).
			DateRepresentation(DateTimestamp).
			GroupBy("site").
			Build()
		require.NoError(t, err)

		sql, _, err := q.ToSql()
		require.NoError(t, err)

		may := time.Date(2022, time.May, 1, 0, 0, 0, 0, time.UTC)
		june := time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(regexp.QuoteMeta(sql)).
			WillReturnRows(sqlmock.NewRows([]string{"period_start", "site", "num_records"}).
				AddRow(may, "palmer", int64(3)).
				AddRow(june, "carlton", int64(5)).
				AddRow(june, "palmer", int64(2)))

		counts, err := q.Counts(db)
		assert.NoError(t, err)
		require.Len(t, counts, 3)

		assert.Equal(t, may, counts[0].PeriodStart)
		assert.Equal(t, "palmer", counts[0].Groups["site"])
		assert.Equal(t, int64(3), counts[0].NumRecords)

		assert.Equal(t, june, counts[1].PeriodStart)
		assert.Equal(t, june, counts[2].PeriodStart)
		assert.True(t, !counts[1].PeriodStart.Before(counts[0].PeriodStart))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reads text period starts", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		q, err := Count("visits", "visit_date").Dialect(Dialects.SQLite3).Build()
		require.NoError(t, err)

		sql, _, err := q.ToSql()
		require.NoError(t, err)

		mock.ExpectQuery(regexp.QuoteMeta(sql)).
			WillReturnRows(sqlmock.NewRows([]string{"period_start", "num_records"}).
				AddRow("2022-05-30", int64(4)))

		counts, err := q.Counts(db)
		assert.NoError(t, err)
		require.Len(t, counts, 1)
		assert.Equal(t, time.Date(2022, time.May, 30, 0, 0, 0, 0, time.UTC), counts[0].PeriodStart)
		assert.Equal(t, int64(4), counts[0].NumRecords)
	})

	t.Run("range arguments reach the driver", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		since := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
		q, err := Count("visits", "visited_at").
			DateRepresentation(DateTimestamp).
			Since(since).
			Build()
		require.NoError(t, err)

		sql, _, err := q.ToSql()
		require.NoError(t, err)

		mock.ExpectQuery(regexp.QuoteMeta(sql)).
			WithArgs(since).
			WillReturnRows(sqlmock.NewRows([]string{"period_start", "num_records"}))

		_, err = q.CountsContext(context.Background(), db)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver errors propagate unmodified", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		q, err := Count("visits", "visit_date").Build()
		require.NoError(t, err)

		boom := errors.New("relation visits does not exist")
		mock.ExpectQuery("SELECT (.+) FROM visits (.+)").WillReturnError(boom)

		_, err = q.Counts(db)
		assert.ErrorIs(t, err, boom)
	})
}

func TestBindRows(t *testing.T) {
	type visitBucket struct {
		PeriodStart time.Time
		Site        string
		NumRecords  int64
	}

	t.Run("binds by snake cased field names", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		q, err := Count("visits", "visited_at").
			DateRepresentation(DateTimestamp).
			GroupBy("site").
			Build()
		require.NoError(t, err)

		sql, _, err := q.ToSql()
		require.NoError(t, err)

		may := time.Date(2022, time.May, 30, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(regexp.QuoteMeta(sql)).
			WillReturnRows(sqlmock.NewRows([]string{"period_start", "site", "num_records"}).
				AddRow(may, "palmer", int64(7)))

		var buckets []visitBucket
		err = q.Bind(db, &buckets)
		assert.NoError(t, err)
		require.Len(t, buckets, 1)
		assert.Equal(t, visitBucket{PeriodStart: may, Site: "palmer", NumRecords: 7}, buckets[0])
	})

	t.Run("binds by tag and discards unmatched columns", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		type bucket struct {
			Start time.Time `bind:"period_start"`
			N     int64     `bind:"num_records"`
		}

		q, err := Count("visits", "visited_at").
			DateRepresentation(DateTimestamp).
			GroupBy("site").
			Build()
		require.NoError(t, err)

		sql, _, err := q.ToSql()
		require.NoError(t, err)

		may := time.Date(2022, time.May, 30, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(regexp.QuoteMeta(sql)).
			WillReturnRows(sqlmock.NewRows([]string{"period_start", "site", "num_records"}).
				AddRow(may, "palmer", int64(7)))

		var buckets []bucket
		err = q.Bind(db, &buckets)
		assert.NoError(t, err)
		require.Len(t, buckets, 1)
		assert.Equal(t, may, buckets[0].Start)
		assert.Equal(t, int64(7), buckets[0].N)
	})

	t.Run("rejects non slice targets", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		q, err := Count("visits", "visit_date").Build()
		require.NoError(t, err)

		mock.ExpectQuery("SELECT (.+)").
			WillReturnRows(sqlmock.NewRows([]string{"period_start", "num_records"}))

		var bucket visitBucket
		err = q.Bind(db, &bucket)
		assert.Error(t, err)
	})
}

func TestSchematic(t *testing.T) {
	q, err := Count("visits", "visit_date").GroupBy("site").Build()
	require.NoError(t, err)

	out := q.Schematic()
	assert.Contains(t, out, "FILTER")
	assert.Contains(t, out, "visit_date IS NOT NULL")
	assert.Contains(t, out, "GROUP BY")
	assert.Contains(t, out, "period_start, site")
	assert.Contains(t, out, "COUNT(*) AS num_records")
}
