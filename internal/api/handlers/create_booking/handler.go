package create_booking

import (
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
)

const (
	route = "POST /bookings"

	msgInvalidRequestBody = "invalid request body"
	msgBusinessMismatch   = "businessId does not match X-Business-ID"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	businessID, ok := middleware.MatchBusinessID(r.Context(), req.BusinessID)
	if !ok {
		h.logger.Warn("%s - Business context mismatch", route)
		handlers.RespondUnauthorized(w, msgBusinessMismatch)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(businessID)
	if err != nil {
		h.logger.Warn("%s - Failed to parse request: %v", route, err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	appointment, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		handlers.RespondBookingError(w, h.logger, route, err)
		return
	}

	h.logger.Info("%s - Booking created successfully: appointment_id=%d, reference=%s, business_id=%d",
		route, appointment.ID, appointment.BookingReference, businessID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainAppointment(appointment))
}
