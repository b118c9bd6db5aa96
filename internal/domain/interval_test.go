package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestTimeRange_Overlaps(t *testing.T) {
	booked := TimeRange{Start: at(10, 0), End: at(10, 45)}

	tests := []struct {
		name      string
		candidate TimeRange
		want      bool
	}{
		{name: "ends where booking starts", candidate: TimeRange{Start: at(9, 15), End: at(10, 0)}, want: false},
		{name: "starts where booking ends", candidate: TimeRange{Start: at(10, 45), End: at(11, 30)}, want: false},
		{name: "crosses start", candidate: TimeRange{Start: at(9, 45), End: at(10, 30)}, want: true},
		{name: "crosses end", candidate: TimeRange{Start: at(10, 30), End: at(11, 15)}, want: true},
		{name: "inside", candidate: TimeRange{Start: at(10, 15), End: at(10, 30)}, want: true},
		{name: "covers", candidate: TimeRange{Start: at(9, 0), End: at(12, 0)}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.candidate.Overlaps(booked))
			assert.Equal(t, tt.want, booked.Overlaps(tt.candidate))
		})
	}
}

func TestBlockedRanges(t *testing.T) {
	blocked := NewBlockedRanges(
		[]TimeRange{{Start: at(14, 0), End: at(15, 0)}},
		[]TimeRange{{Start: at(10, 0), End: at(10, 45)}, {Start: at(12, 0), End: at(12, 0)}},
	)

	assert.Len(t, blocked, 2, "empty ranges are dropped")
	assert.Equal(t, at(10, 0), blocked[0].Start, "sorted by start")

	assert.False(t, blocked.Overlaps(TimeRange{Start: at(10, 45), End: at(11, 30)}))
	assert.True(t, blocked.Overlaps(TimeRange{Start: at(13, 30), End: at(14, 15)}))

	hit, ok := blocked.FirstOverlap(TimeRange{Start: at(9, 45), End: at(14, 30)})
	assert.True(t, ok)
	assert.Equal(t, at(10, 0), hit.Start)
}
