package notify

import "time"

// Kind тип уведомления
type Kind string

const (
	KindBookingConfirmed   Kind = "booking_confirmed"
	KindBookingRescheduled Kind = "booking_rescheduled"
	KindBookingCancelled   Kind = "booking_cancelled"
	KindSeriesCancelled    Kind = "series_cancelled"
)

// Notification событие для внешнего сервиса уведомлений
type Notification struct {
	Kind             Kind
	BusinessID       int64
	AppointmentID    int64
	BookingReference string
	ClientID         *int64
	StartTime        time.Time
	EndTime          time.Time

	// Только для booking_rescheduled
	PreviousStartTime *time.Time
	PreviousEndTime   *time.Time

	// Только для series_cancelled
	SeriesID       *string
	AppointmentIDs []int64

	Reason *string
}
