package get_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getAvailability "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_availability"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeUseCase struct {
	got *getAvailability.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailability.Request) (*getAvailability.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	start := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	return &getAvailability.Response{
		Date:            req.Date,
		ServiceID:       req.ServiceID,
		DurationMinutes: 45,
		Staff: []domain.StaffAvailability{{
			StaffID: 3, StaffName: "Anna",
			Slots: []domain.AvailableSlot{{StaffID: 3, StartTime: start, EndTime: start.Add(45 * time.Minute)}},
		}},
		AllSlots: []domain.MergedSlot{{StartTime: start, EndTime: start.Add(45 * time.Minute), StaffIDs: []int64{3}}},
	}, nil
}

func serve(uc *fakeUseCase, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?"+query, nil)
	req = req.WithContext(middleware.WithBusinessID(req.Context(), 1))
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_ReturnsSlots(t *testing.T) {
	uc := &fakeUseCase{}

	rec := serve(uc, "serviceId=10&locationId=2&date=2026-03-09&staffId=3")

	require.Equal(t, http.StatusOK, rec.Code)
	var body AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-03-09", body.Date)
	require.Len(t, body.Staff, 1)
	assert.Len(t, body.Staff[0].Slots, 1)
	assert.Equal(t, []int64{3}, body.AllSlots[0].StaffIDs)

	require.NotNil(t, uc.got.StaffID)
	assert.Equal(t, int64(3), *uc.got.StaffID)
	assert.Equal(t, int64(2), uc.got.LocationID)
}

func TestHandle_PastDate(t *testing.T) {
	rec := serve(&fakeUseCase{err: getAvailability.ErrPastDate}, "serviceId=10&locationId=2&date=2020-01-01")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"code":400,"message":"Cannot check availability for past dates"}`, rec.Body.String())
}

func TestHandle_BadParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "missing date", query: "serviceId=10&locationId=2", want: http.StatusBadRequest},
		{name: "bad date", query: "serviceId=10&locationId=2&date=09.03.2026", want: http.StatusBadRequest},
		{name: "bad service", query: "serviceId=x&locationId=2&date=2026-03-09", want: http.StatusBadRequest},
		{name: "missing location", query: "serviceId=10&date=2026-03-09", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := serve(uc, tt.query)
			assert.Equal(t, tt.want, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandle_ServiceNotFound(t *testing.T) {
	rec := serve(&fakeUseCase{err: getAvailability.ErrServiceNotFound}, "serviceId=10&locationId=2&date=2026-03-09")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
