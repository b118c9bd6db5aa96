package notificationservice

import "time"

// NotificationRequest тело запроса к сервису уведомлений
type NotificationRequest struct {
	Type              string     `json:"type"`
	BusinessID        int64      `json:"business_id"`
	AppointmentID     int64      `json:"appointment_id"`
	BookingReference  string     `json:"booking_reference,omitempty"`
	ClientID          *int64     `json:"client_id,omitempty"`
	StartTime         time.Time  `json:"start_time"`
	EndTime           time.Time  `json:"end_time"`
	PreviousStartTime *time.Time `json:"previous_start_time,omitempty"`
	PreviousEndTime   *time.Time `json:"previous_end_time,omitempty"`
	SeriesID          *string    `json:"series_id,omitempty"`
	AppointmentIDs    []int64    `json:"appointment_ids,omitempty"`
	Reason            *string    `json:"reason,omitempty"`
}

// ErrorResponse модель ошибки от сервиса уведомлений
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
