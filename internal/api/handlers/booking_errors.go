package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
)

const (
	msgServiceNotFound = "service not found"
	msgStaffNotFound   = "staff member not found"
	msgClientNotFound  = "client not found"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RespondBookingError отображает ошибки создания бронирования в HTTP ответ.
// Конфликт отдается как 400 с названием услуги и временем.
func RespondBookingError(w http.ResponseWriter, log Logger, route string, err error) {
	var conflict *domain.ConflictError
	var unavailable *createBooking.SlotUnavailableError

	switch {
	case errors.As(err, &conflict):
		log.Warn("%s - Slot conflict: %v", route, err)
		RespondBadRequest(w, conflict.Error())

	case errors.As(err, &unavailable):
		log.Warn("%s - Slot unavailable: %v", route, err)
		RespondBadRequest(w, unavailable.Error())

	case errors.Is(err, createBooking.ErrInvalidInput):
		log.Warn("%s - Invalid input: %v", route, err)
		RespondBadRequest(w, err.Error())

	case errors.Is(err, createBooking.ErrServiceNotFound):
		log.Warn("%s - Service not found: %v", route, err)
		RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, createBooking.ErrStaffNotFound):
		log.Warn("%s - Staff not found: %v", route, err)
		RespondNotFound(w, msgStaffNotFound)

	case errors.Is(err, createBooking.ErrClientNotFound):
		log.Warn("%s - Client not found: %v", route, err)
		RespondNotFound(w, msgClientNotFound)

	default:
		log.Error("%s - Failed to create booking: %v", route, err)
		RespondInternalError(w)
	}
}
