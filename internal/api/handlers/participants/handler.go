package participants

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonBooking/internal/service/groups"
)

const (
	msgInvalidBookingID   = "invalid booking id"
	msgInvalidClientID    = "invalid client id"
	msgInvalidRequestBody = "invalid request body"
	msgNotFound           = "booking not found"
	msgClientNotFound     = "client not found"
	msgNotGroup           = "booking is not a group booking"
	msgGroupClosed        = "group booking is no longer active"
	msgGroupFull          = "group is full"
	msgDuplicate          = "client is already a participant"
	msgMissingBusiness    = "missing business context"
)

// Handler обслуживает участников группового бронирования
type Handler struct {
	service GroupService
	logger  Logger
}

func NewHandler(service GroupService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Add POST /api/v1/bookings/{bookingId}/participants
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	const route = "POST /bookings/{id}/participants"

	bookingID, businessID, ok := h.target(w, r, route)
	if !ok {
		return
	}

	var req AddParticipantRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.ClientID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	participant, err := h.service.AddParticipant(r.Context(), businessID, bookingID, req.ClientID)
	if err != nil {
		h.respondError(w, route, bookingID, err)
		return
	}

	h.logger.Info("%s - Participant added: booking_id=%d, client_id=%d", route, bookingID, req.ClientID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainParticipants([]domain.GroupParticipant{*participant})[0])
}

// Remove DELETE /api/v1/bookings/{bookingId}/participants/{clientId}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const route = "DELETE /bookings/{id}/participants/{clientId}"

	bookingID, businessID, ok := h.target(w, r, route)
	if !ok {
		return
	}

	clientID, err := handlers.PathID(r, "clientId")
	if err != nil {
		h.logger.Warn("%s - Invalid client ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	if err := h.service.RemoveParticipant(r.Context(), businessID, bookingID, clientID); err != nil {
		h.respondError(w, route, bookingID, err)
		return
	}

	h.logger.Info("%s - Participant removed: booking_id=%d, client_id=%d", route, bookingID, clientID)
	handlers.RespondNoContent(w)
}

// List GET /api/v1/bookings/{bookingId}/participants
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const route = "GET /bookings/{id}/participants"

	bookingID, businessID, ok := h.target(w, r, route)
	if !ok {
		return
	}

	list, err := h.service.ListParticipants(r.Context(), businessID, bookingID)
	if err != nil {
		h.respondError(w, route, bookingID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ParticipantListResponse{
		AppointmentID: bookingID,
		Participants:  models.FromDomainParticipants(list),
	})
}

func (h *Handler) target(w http.ResponseWriter, r *http.Request, route string) (int64, int64, bool) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("%s - Invalid booking ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return 0, 0, false
	}

	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingBusiness)
		return 0, 0, false
	}
	return bookingID, businessID, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, bookingID int64, err error) {
	switch {
	case errors.Is(err, groups.ErrGroupFull):
		h.logger.Warn("%s - Group is full: booking_id=%d", route, bookingID)
		handlers.RespondBadRequest(w, msgGroupFull)

	case errors.Is(err, groups.ErrDuplicateParticipant):
		handlers.RespondBadRequest(w, msgDuplicate)

	case errors.Is(err, groups.ErrNotGroupBooking):
		handlers.RespondBadRequest(w, msgNotGroup)

	case errors.Is(err, groups.ErrGroupClosed):
		handlers.RespondBadRequest(w, msgGroupClosed)

	case errors.Is(err, groups.ErrInvalidInput):
		handlers.RespondBadRequest(w, err.Error())

	case errors.Is(err, groups.ErrAppointmentNotFound):
		h.logger.Warn("%s - Booking not found: booking_id=%d", route, bookingID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, groups.ErrClientNotFound):
		handlers.RespondNotFound(w, msgClientNotFound)

	default:
		h.logger.Error("%s - Failed: booking_id=%d, error=%v", route, bookingID, err)
		handlers.RespondInternalError(w)
	}
}
