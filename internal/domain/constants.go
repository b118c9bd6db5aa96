package domain

// Константы сетки слотов
const (
	SlotGranularityMinutes = 15
	MinLeadTimeMinutes     = 30
)

// Константы серий
const (
	MaxSeriesOccurrences = 52
)

// Константы бизнес-валидации
const (
	MaxServicesPerBooking       = 10
	MaxGroupParticipants        = 100
	MaxNotesLength              = 1000
	MaxCancellationReasonLength = 500
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BookingReferencePrefix префикс публичного номера бронирования
const BookingReferencePrefix = "SAL"

// BookingSource откуда пришло бронирование
const (
	SourceOnline    = "online"
	SourceFrontDesk = "front_desk"
	SourcePhone     = "phone"
	SourceWalkIn    = "walk_in"
)
