package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(dbmetrics.Wrap(db, nil, "test")), mock
}

func TestRepository_ListSchedules(t *testing.T) {
	repo, mock := newRepository(t)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM staff_schedules WHERE`).
		WithArgs(int(time.Monday), true, int64(2), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "staff_id", "location_id", "day_of_week", "start_time", "end_time",
			"effective_from", "effective_until", "is_active",
		}).AddRow(int64(1), int64(9), int64(2), int64(1), "09:00:00", "18:00:00", from, nil, true))
	mock.ExpectQuery(`SELECT .+ FROM staff_breaks WHERE schedule_id IN \(\$1\)`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "schedule_id", "start_time", "end_time"}).
			AddRow(int64(4), int64(1), "13:00:00", "14:00:00"))

	schedules, err := repo.ListSchedules(context.Background(), 9, 2, time.Monday)
	require.NoError(t, err)

	require.Len(t, schedules, 1)
	s := schedules[0]
	assert.Equal(t, time.Monday, s.DayOfWeek)
	assert.Equal(t, "09:00", s.StartTime.String())
	assert.Nil(t, s.EffectiveUntil)
	require.Len(t, s.Breaks, 1)
	assert.Equal(t, "13:00", s.Breaks[0].StartTime.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListApprovedTimeOff(t *testing.T) {
	repo, mock := newRepository(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM time_off WHERE .+ AND start_date <= \$3 AND end_date >= \$4`).
		WithArgs(int64(9), "approved", "2026-03-10", "2026-03-10").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "staff_id", "start_date", "end_date", "start_time", "end_time", "status", "reason",
		}).AddRow(int64(3), int64(9), date, date, "12:00:00", "15:00:00", "approved", nil))

	offs, err := repo.ListApprovedTimeOff(context.Background(), 9, date)
	require.NoError(t, err)

	require.Len(t, offs, 1)
	assert.False(t, offs[0].IsFullDay())
	r, ok := offs[0].RangeOn(date)
	require.True(t, ok)
	assert.Equal(t, 3*time.Hour, r.Duration())
}
