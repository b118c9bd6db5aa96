package cancel_series

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
)

const (
	msgInvalidDate     = "invalid from date, expected YYYY-MM-DD"
	msgMissingBusiness = "missing business context"
)

type Handler struct {
	service  BookingService
	location *time.Location
	logger   Logger
}

func NewHandler(service BookingService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle DELETE /api/v1/series/{seriesId}
// Query params: from (YYYY-MM-DD, опционально), reason (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	seriesID := mux.Vars(r)["seriesId"]

	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingBusiness)
		return
	}

	from, err := handlers.QueryDate(r, "from")
	if err != nil {
		h.logger.Warn("DELETE /series/{id} - Invalid from date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	serviceReq := &models.CancelSeriesRequest{
		SeriesID: seriesID,
		Reason:   r.URL.Query().Get("reason"),
	}
	if from != nil {
		start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, h.location)
		serviceReq.From = &start
	}

	result, err := h.service.CancelSeries(r.Context(), businessID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("DELETE /series/{id} - Invalid input: series_id=%s, %v", seriesID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("DELETE /series/{id} - Failed to cancel series: series_id=%s, error=%v", seriesID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /series/{id} - Series cancelled: series_id=%s, count=%d", seriesID, result.CancelledCount)
	handlers.RespondJSON(w, http.StatusOK, result)
}
