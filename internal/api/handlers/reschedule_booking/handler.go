package reschedule_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
	rescheduleBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/reschedule_booking"
)

const (
	route = "POST /bookings/{id}/reschedule"

	msgInvalidBookingID   = "invalid booking id"
	msgInvalidRequestBody = "invalid request body"
	msgNotFound           = "booking not found"
	msgNotReschedulable   = "booking cannot be rescheduled in its current status"
	msgStaffNotFound      = "staff member not found"
	msgServiceNotFound    = "service not found"
	msgMissingBusiness    = "missing business context"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("%s - Invalid booking ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingBusiness)
		return
	}

	var body RescheduleRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq, err := body.ToUseCaseRequest(businessID, bookingID)
	if err != nil {
		h.logger.Warn("%s - Invalid request: %v", route, err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	appointment, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		h.respondError(w, bookingID, err)
		return
	}

	h.logger.Info("%s - Booking rescheduled: booking_id=%d, start=%s", route, bookingID, appointment.StartTime)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainAppointment(appointment))
}

func (h *Handler) respondError(w http.ResponseWriter, bookingID int64, err error) {
	var conflict *domain.ConflictError
	var unavailable *rescheduleBooking.SlotUnavailableError

	switch {
	case errors.As(err, &conflict):
		h.logger.Warn("%s - Slot conflict: booking_id=%d, %v", route, bookingID, err)
		handlers.RespondBadRequest(w, conflict.Error())

	case errors.As(err, &unavailable):
		h.logger.Warn("%s - Slot unavailable: booking_id=%d, %v", route, bookingID, err)
		handlers.RespondBadRequest(w, unavailable.Error())

	case errors.Is(err, rescheduleBooking.ErrNotReschedulable):
		h.logger.Warn("%s - Not reschedulable: booking_id=%d, %v", route, bookingID, err)
		handlers.RespondBadRequest(w, msgNotReschedulable)

	case errors.Is(err, rescheduleBooking.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: booking_id=%d, %v", route, bookingID, err)
		handlers.RespondBadRequest(w, err.Error())

	case errors.Is(err, rescheduleBooking.ErrAppointmentNotFound):
		h.logger.Warn("%s - Booking not found: booking_id=%d", route, bookingID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, rescheduleBooking.ErrStaffNotFound):
		handlers.RespondNotFound(w, msgStaffNotFound)

	case errors.Is(err, rescheduleBooking.ErrServiceNotFound):
		handlers.RespondNotFound(w, msgServiceNotFound)

	default:
		h.logger.Error("%s - Failed to reschedule booking: booking_id=%d, error=%v", route, bookingID, err)
		handlers.RespondInternalError(w)
	}
}
