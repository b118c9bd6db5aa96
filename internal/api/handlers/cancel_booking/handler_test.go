package cancel_booking

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeService struct {
	called bool
	got    *models.CancelRequest
	err    error
}

func (f *fakeService) Cancel(_ context.Context, _, _ int64, req *models.CancelRequest) error {
	f.called = true
	f.got = req
	return f.err
}

func serve(svc *fakeService, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/10", body)
	req = mux.SetURLVars(req, map[string]string{"bookingId": "10"})
	req = req.WithContext(middleware.WithBusinessID(req.Context(), 1))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_WithoutBody(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, svc.called)
	assert.Nil(t, svc.got.Reason)
}

func TestHandle_WithReason(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, strings.NewReader(`{"reason":"client is ill","cancelledBy":"client"}`))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, svc.got.Reason)
	assert.Equal(t, "client is ill", *svc.got.Reason)
	assert.Equal(t, "client", *svc.got.CancelledBy)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "already closed", err: bookings.ErrCannotCancel, wantCode: http.StatusBadRequest},
		{name: "not found", err: bookings.ErrAppointmentNotFound, wantCode: http.StatusNotFound},
		{name: "internal", err: bookings.ErrInternal, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, nil)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
