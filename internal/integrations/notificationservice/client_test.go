package notificationservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/notify"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Send(t *testing.T) {
	start := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	previous := start.Add(-time.Hour)

	var got NotificationRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/internal/notifications", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second, logger.NewNop())
	err := client.Send(context.Background(), notify.Notification{
		Kind:              notify.KindBookingRescheduled,
		BusinessID:        1,
		AppointmentID:     7,
		BookingReference:  "SAL-M1-ABCD",
		StartTime:         start,
		EndTime:           start.Add(45 * time.Minute),
		PreviousStartTime: &previous,
	})
	require.NoError(t, err)

	assert.Equal(t, "booking_rescheduled", got.Type)
	assert.Equal(t, int64(7), got.AppointmentID)
	require.NotNil(t, got.PreviousStartTime)
	assert.True(t, previous.Equal(*got.PreviousStartTime))
}

func TestClient_Send_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "rejected", status: http.StatusUnprocessableEntity, want: ErrRejected},
		{name: "server error", status: http.StatusBadGateway, want: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"code":1,"message":"nope"}`))
			}))
			defer server.Close()

			err := NewClient(server.URL, "", time.Second, logger.NewNop()).
				Send(context.Background(), notify.Notification{Kind: notify.KindBookingConfirmed})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_Send_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	err := NewClient(server.URL, "", 200*time.Millisecond, logger.NewNop()).
		Send(context.Background(), notify.Notification{Kind: notify.KindBookingConfirmed})
	assert.ErrorIs(t, err, ErrInternal)
}
