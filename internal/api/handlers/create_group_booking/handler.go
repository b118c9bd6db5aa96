package create_group_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
	createGroupBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_group_booking"
)

const (
	route = "POST /bookings/group"

	msgInvalidRequestBody = "invalid request body"
	msgBusinessMismatch   = "businessId does not match X-Business-ID"
)

type Handler struct {
	useCase CreateGroupBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateGroupBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/group
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	businessID, ok := middleware.MatchBusinessID(r.Context(), req.BusinessID)
	if !ok {
		h.logger.Warn("%s - Business mismatch", route)
		handlers.RespondUnauthorized(w, msgBusinessMismatch)
		return
	}

	appointment, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(businessID))
	if err != nil {
		if errors.Is(err, createGroupBooking.ErrInvalidInput) {
			h.logger.Warn("%s - Invalid input: %v", route, err)
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		handlers.RespondBookingError(w, h.logger, route, err)
		return
	}

	h.logger.Info("%s - Group booking created: booking_id=%d, participants=%d/%d",
		route, appointment.ID, len(appointment.Participants), req.MaxParticipants)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainAppointment(appointment))
}
