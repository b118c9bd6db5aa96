package list_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

var salon = time.FixedZone("salon", 3*60*60)

type fakeService struct {
	businessID int64
	got        *models.ListRequest
	err        error
}

func (f *fakeService) List(_ context.Context, businessID int64, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	f.businessID = businessID
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentListResponse{Appointments: []models.AppointmentResponse{{ID: 1}, {ID: 2}}}, nil
}

func serve(svc *fakeService, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?"+query, nil)
	req = req.WithContext(middleware.WithBusinessID(req.Context(), 4))
	rec := httptest.NewRecorder()
	NewHandler(svc, salon, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_ParsesFilter(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "locationId=2&staffId=3&status=confirmed&dateFrom=2026-03-09&dateTo=2026-03-10&limit=20&offset=40")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(4), svc.businessID)
	require.NotNil(t, svc.got)
	assert.Equal(t, int64(2), *svc.got.LocationID)
	assert.Equal(t, int64(3), *svc.got.StaffID)
	assert.Nil(t, svc.got.ClientID)
	assert.Equal(t, "confirmed", *svc.got.Status)
	assert.True(t, time.Date(2026, 3, 9, 0, 0, 0, 0, salon).Equal(*svc.got.DateFrom))
	assert.True(t, time.Date(2026, 3, 11, 0, 0, 0, 0, salon).Equal(*svc.got.DateTo))
	assert.Equal(t, 20, svc.got.Limit)
	assert.Equal(t, 40, svc.got.Offset)
	assert.Contains(t, rec.Body.String(), `"appointments"`)
}

func TestHandle_NoFilter(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, &models.ListRequest{}, svc.got)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		err      error
		wantCode int
	}{
		{name: "bad staff", query: "staffId=x", wantCode: http.StatusBadRequest},
		{name: "bad date", query: "dateFrom=09.03.2026", wantCode: http.StatusBadRequest},
		{name: "bad limit", query: "limit=ten", wantCode: http.StatusBadRequest},
		{name: "rejected filter", query: "status=archived", err: bookings.ErrInvalidInput, wantCode: http.StatusBadRequest},
		{name: "internal", err: bookings.ErrInternal, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.query)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
