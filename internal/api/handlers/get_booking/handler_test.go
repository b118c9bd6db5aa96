package get_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeService struct {
	businessID int64
	err        error
}

func (f *fakeService) GetByID(_ context.Context, businessID, id int64) (*models.AppointmentResponse, error) {
	f.businessID = businessID
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{ID: id, BusinessID: businessID}, nil
}

func serve(svc *fakeService, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"bookingId": id})
	req = req.WithContext(middleware.WithBusinessID(req.Context(), 1))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		err      error
		wantCode int
	}{
		{name: "found", id: "10", wantCode: http.StatusOK},
		{name: "not found", id: "10", err: bookings.ErrAppointmentNotFound, wantCode: http.StatusNotFound},
		{name: "internal", id: "10", err: errors.New("db down"), wantCode: http.StatusInternalServerError},
		{name: "bad id", id: "abc", wantCode: http.StatusBadRequest},
		{name: "zero id", id: "0", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			rec := serve(svc, tt.id)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, int64(1), svc.businessID)
				assert.Contains(t, rec.Body.String(), `"id":10`)
			}
		})
	}
}
