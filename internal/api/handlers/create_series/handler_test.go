package create_series

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	createSeries "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_series"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeUseCase struct {
	got  *createSeries.Request
	resp *createSeries.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createSeries.Request) (*createSeries.Response, error) {
	f.got = req
	return f.resp, f.err
}

const validBody = `{"locationId":2,"clientId":5,"recurrenceRule":"weekly","until":"2026-04-06",
	"services":[{"serviceId":10,"staffId":3,"startTime":"2026-03-09T10:00:00Z"}]}`

func serve(uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/series", strings.NewReader(body))
	req = req.WithContext(middleware.WithBusinessID(req.Context(), 1))
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_CreatesSeries(t *testing.T) {
	uc := &fakeUseCase{resp: &createSeries.Response{
		SeriesID: "5f0c",
		Rule:     domain.RecurrenceWeekly,
		Created:  []*domain.Appointment{{ID: 1}, {ID: 2}},
		Skipped: []createSeries.SkippedOccurrence{{
			Date:    time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
			Reason:  createSeries.SkipReasonConflict,
			Message: "Haircut at 2026-03-16T10:00:00Z is no longer available",
		}},
	}}

	rec := serve(uc, validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, domain.RecurrenceWeekly, uc.got.Rule)
	assert.Equal(t, time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC), uc.got.Until)
	assert.Len(t, uc.got.Services, 1)

	var body SeriesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "5f0c", body.SeriesID)
	assert.Len(t, body.Created, 2)
	require.Len(t, body.Skipped, 1)
	assert.Equal(t, "2026-03-16", body.Skipped[0].Date)
	assert.Equal(t, "conflict", body.Skipped[0].Reason)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{name: "unknown rule", body: `{"locationId":2,"recurrenceRule":"daily","until":"2026-04-06","services":[]}`, wantCode: http.StatusBadRequest},
		{name: "bad until", body: `{"locationId":2,"recurrenceRule":"weekly","until":"06.04.2026","services":[]}`, wantCode: http.StatusBadRequest},
		{name: "business mismatch", body: `{"businessId":9,"locationId":2,"recurrenceRule":"weekly","until":"2026-04-06","services":[]}`, wantCode: http.StatusUnauthorized},
		{name: "all busy", body: validBody, err: createSeries.ErrSeriesEmpty, wantCode: http.StatusBadRequest},
		{name: "service not found", body: validBody, err: createBooking.ErrServiceNotFound, wantCode: http.StatusNotFound},
		{name: "aborted", body: validBody, err: createBooking.ErrInternal, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{err: tt.err, resp: &createSeries.Response{}}
			rec := serve(uc, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
