package create_series

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
)

// Причины пропуска вхождения
const (
	SkipReasonConflict    = "conflict"
	SkipReasonUnavailable = "unavailable"
)

// Request модель запроса на создание серии
type Request struct {
	BusinessID int64
	LocationID int64
	ClientID   *int64
	Services   []create_booking.ServiceLine // время первого вхождения
	Notes      *string
	Source     string

	Rule  domain.RecurrenceRule
	Until time.Time // последняя допустимая дата, включительно
}

// SkippedOccurrence вхождение, которое не удалось забронировать
type SkippedOccurrence struct {
	Date    time.Time
	Reason  string
	Message string
}

// Response результат создания серии
type Response struct {
	SeriesID string
	Rule     domain.RecurrenceRule
	Created  []*domain.Appointment
	Skipped  []SkippedOccurrence
}
