package participants

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/groups"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeService struct {
	added   int64
	removed int64
	err     error
}

func (f *fakeService) AddParticipant(_ context.Context, _, appointmentID, clientID int64) (*domain.GroupParticipant, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.added = clientID
	return &domain.GroupParticipant{AppointmentID: appointmentID, ClientID: clientID, CreatedAt: time.Now()}, nil
}

func (f *fakeService) RemoveParticipant(_ context.Context, _, _, clientID int64) error {
	f.removed = clientID
	return f.err
}

func (f *fakeService) ListParticipants(_ context.Context, _, appointmentID int64) ([]domain.GroupParticipant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.GroupParticipant{
		{AppointmentID: appointmentID, ClientID: 5},
		{AppointmentID: appointmentID, ClientID: 6},
	}, nil
}

func newRequest(method, body string, vars map[string]string) *http.Request {
	req := httptest.NewRequest(method, "/api/v1/bookings/20/participants", strings.NewReader(body))
	req = mux.SetURLVars(req, vars)
	return req.WithContext(middleware.WithBusinessID(req.Context(), 1))
}

func TestAdd(t *testing.T) {
	svc := &fakeService{}
	rec := httptest.NewRecorder()

	NewHandler(svc, logger.NewNop()).Add(rec, newRequest(http.MethodPost, `{"clientId":9}`, map[string]string{"bookingId": "20"}))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(9), svc.added)
	assert.Contains(t, rec.Body.String(), `"clientId":9`)
}

func TestAdd_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{name: "full", body: `{"clientId":9}`, err: groups.ErrGroupFull, wantCode: http.StatusBadRequest},
		{name: "duplicate", body: `{"clientId":9}`, err: groups.ErrDuplicateParticipant, wantCode: http.StatusBadRequest},
		{name: "not a group", body: `{"clientId":9}`, err: groups.ErrNotGroupBooking, wantCode: http.StatusBadRequest},
		{name: "closed", body: `{"clientId":9}`, err: groups.ErrGroupClosed, wantCode: http.StatusBadRequest},
		{name: "no client id", body: `{}`, wantCode: http.StatusBadRequest},
		{name: "booking not found", body: `{"clientId":9}`, err: groups.ErrAppointmentNotFound, wantCode: http.StatusNotFound},
		{name: "client not found", body: `{"clientId":9}`, err: groups.ErrClientNotFound, wantCode: http.StatusNotFound},
		{name: "internal", body: `{"clientId":9}`, err: groups.ErrInternal, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHandler(&fakeService{err: tt.err}, logger.NewNop()).
				Add(rec, newRequest(http.MethodPost, tt.body, map[string]string{"bookingId": "20"}))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRemove(t *testing.T) {
	svc := &fakeService{}
	rec := httptest.NewRecorder()

	NewHandler(svc, logger.NewNop()).Remove(rec, newRequest(http.MethodDelete, "",
		map[string]string{"bookingId": "20", "clientId": "6"}))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(6), svc.removed)
}

func TestList(t *testing.T) {
	rec := httptest.NewRecorder()

	NewHandler(&fakeService{}, logger.NewNop()).List(rec, newRequest(http.MethodGet, "", map[string]string{"bookingId": "20"}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"appointmentId":20`)
	assert.Contains(t, rec.Body.String(), `"clientId":6`)
}
