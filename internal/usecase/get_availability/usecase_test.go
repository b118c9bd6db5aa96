package get_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeAggregator struct {
	got    *availability.AggregateQuery
	result *availability.Aggregate
	err    error
}

func (f *fakeAggregator) Aggregate(_ context.Context, q availability.AggregateQuery) (*availability.Aggregate, error) {
	f.got = &q
	return f.result, f.err
}

var moscow = time.FixedZone("MSK", 3*60*60)

func newUseCase(agg *fakeAggregator, now time.Time) *UseCase {
	uc := NewUseCase(agg, moscow, logger.NewNop())
	uc.timeProvider = fixedClock{now: now}
	return uc
}

func TestExecute_ReturnsAggregate(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, moscow)
	agg := &fakeAggregator{result: &availability.Aggregate{
		Service: &domain.Service{ID: 10, DurationMinutes: 45},
		Staff: []domain.StaffAvailability{
			{StaffID: 1, Slots: []domain.AvailableSlot{{StaffID: 1, StartTime: start, EndTime: start.Add(45 * time.Minute)}}},
			{StaffID: 2, Slots: []domain.AvailableSlot{}},
		},
		AllSlots: []domain.MergedSlot{{StartTime: start, EndTime: start.Add(45 * time.Minute), StaffIDs: []int64{1}}},
	}}

	uc := newUseCase(agg, time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC))
	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID:  10,
		LocationID: 1,
		StaffID:    ptr.Ptr(int64(1)),
		Date:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, 45, resp.DurationMinutes)
	assert.Len(t, resp.Staff, 2)
	assert.Len(t, resp.AllSlots, 1)

	require.NotNil(t, agg.got)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, moscow), agg.got.Date)
	assert.Equal(t, int64(1), *agg.got.StaffID)
}

func TestExecute_PastDate(t *testing.T) {
	agg := &fakeAggregator{}
	uc := newUseCase(agg, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), &Request{
		ServiceID:  10,
		LocationID: 1,
		Date:       time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, ErrPastDate)
	assert.Nil(t, agg.got)
}

func TestExecute_TodayInSalonTimezone(t *testing.T) {
	// 22:30 UTC 9 марта = 01:30 MSK 10 марта, 9 марта в салоне уже прошло
	agg := &fakeAggregator{}
	uc := newUseCase(agg, time.Date(2026, 3, 9, 22, 30, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), &Request{
		ServiceID:  10,
		LocationID: 1,
		Date:       time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrPastDate)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
		err  error
		want error
	}{
		{name: "missing service", req: &Request{LocationID: 1, Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)}, want: ErrInvalidInput},
		{name: "missing location", req: &Request{ServiceID: 10, Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)}, want: ErrInvalidInput},
		{name: "missing date", req: &Request{ServiceID: 10, LocationID: 1}, want: ErrInvalidInput},
		{
			name: "service not found",
			req:  &Request{ServiceID: 10, LocationID: 1, Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
			err:  availability.ErrServiceNotFound,
			want: ErrServiceNotFound,
		},
		{
			name: "store failure",
			req:  &Request{ServiceID: 10, LocationID: 1, Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
			err:  errors.New("boom"),
			want: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(&fakeAggregator{err: tt.err}, time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC))
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
