package create_group_booking

import (
	"context"
	"fmt"
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
	createGroupBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_group_booking"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeUseCase struct {
	got *createGroupBooking.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createGroupBooking.Request) (*domain.Appointment, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	limit := req.MaxParticipants
	return &domain.Appointment{ID: 20, BusinessID: req.BusinessID, IsGroupBooking: true, MaxParticipants: &limit}, nil
}

const validBody = `{"locationId":2,"serviceId":12,"staffId":3,"startTime":"2026-03-09T18:00:00Z",
	"maxParticipants":5,"clientIds":[5,6,7]}`

func serve(uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/group", strings.NewReader(body))
	req = req.WithContext(middleware.WithBusinessID(req.Context(), 1))
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_CreatesGroup(t *testing.T) {
	uc := &fakeUseCase{}

	rec := serve(uc, validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, &createGroupBooking.Request{
		BusinessID:      1,
		LocationID:      2,
		ServiceID:       12,
		StaffID:         3,
		StartTime:       time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC),
		MaxParticipants: 5,
		ClientIDs:       []int64{5, 6, 7},
	}, uc.got)
	assert.Contains(t, rec.Body.String(), `"isGroupBooking":true`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "too many clients", err: fmt.Errorf("%w: 6 clients for 5 places", createGroupBooking.ErrInvalidInput), wantCode: http.StatusBadRequest},
		{name: "conflict", err: &domain.ConflictError{ServiceName: "Yoga", StartTime: time.Now()}, wantCode: http.StatusBadRequest},
		{name: "client not found", err: createBooking.ErrClientNotFound, wantCode: http.StatusNotFound},
		{name: "internal", err: createBooking.ErrInternal, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, validBody)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
