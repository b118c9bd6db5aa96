package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOccurrences_Weekly(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	until := time.Date(2026, 1, 29, 0, 0, 0, 0, time.UTC)

	got, err := GenerateOccurrences(start, RecurrenceWeekly, until)
	require.NoError(t, err)

	require.Len(t, got, 5, "end date is inclusive")
	for i, occ := range got {
		assert.Equal(t, start.AddDate(0, 0, 7*i), occ)
	}
}

func TestGenerateOccurrences_Biweekly(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	until := time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)

	got, err := GenerateOccurrences(start, RecurrenceBiweekly, until)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		start,
		time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}, got)
}

func TestGenerateOccurrences_MonthlyClampsToMonthEnd(t *testing.T) {
	start := time.Date(2026, 1, 31, 9, 30, 0, 0, time.UTC)
	until := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)

	got, err := GenerateOccurrences(start, RecurrenceMonthly, until)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		time.Date(2026, 1, 31, 9, 30, 0, 0, time.UTC),
		time.Date(2026, 2, 28, 9, 30, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 9, 30, 0, 0, time.UTC),
		time.Date(2026, 4, 30, 9, 30, 0, 0, time.UTC),
	}, got)
}

func TestGenerateOccurrences_Cap(t *testing.T) {
	start := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	until := start.AddDate(3, 0, 0)

	got, err := GenerateOccurrences(start, RecurrenceWeekly, until)
	require.NoError(t, err)

	assert.Len(t, got, MaxSeriesOccurrences)
}

func TestGenerateOccurrences_Errors(t *testing.T) {
	start := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	_, err := GenerateOccurrences(start, "daily", start)
	assert.ErrorIs(t, err, ErrUnknownRecurrenceRule)

	_, err = GenerateOccurrences(start, RecurrenceWeekly, start.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrInvalidSeriesEnd)

	got, err := GenerateOccurrences(start, RecurrenceMonthly, start)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{start}, got)
}
