package notificationservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/notify"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент внешнего сервиса уведомлений (email/SMS)
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса уведомлений
func NewClient(baseURL, apiKey string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Send отправляет уведомление о бронировании
func (c *Client) Send(ctx context.Context, n notify.Notification) error {
	payload, err := json.Marshal(toRequest(n))
	if err != nil {
		return fmt.Errorf("%w: failed to encode request: %w", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/notifications", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %w", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.log.Info("notificationservice: sent %s for appointment id=%d", n.Kind, n.AppointmentID)
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, readError(resp.Body))
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}
}

func toRequest(n notify.Notification) NotificationRequest {
	return NotificationRequest{
		Type:              string(n.Kind),
		BusinessID:        n.BusinessID,
		AppointmentID:     n.AppointmentID,
		BookingReference:  n.BookingReference,
		ClientID:          n.ClientID,
		StartTime:         n.StartTime,
		EndTime:           n.EndTime,
		PreviousStartTime: n.PreviousStartTime,
		PreviousEndTime:   n.PreviousEndTime,
		SeriesID:          n.SeriesID,
		AppointmentIDs:    n.AppointmentIDs,
		Reason:            n.Reason,
	}
}

func readError(body io.Reader) string {
	var errResp ErrorResponse
	if err := json.NewDecoder(body).Decode(&errResp); err != nil || errResp.Message == "" {
		return "no error message"
	}
	return errResp.Message
}
