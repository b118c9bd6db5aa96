package create_series

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	createSeries "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_series"
)

const (
	route = "POST /bookings/series"

	msgInvalidRequestBody = "invalid request body"
	msgSeriesEmpty        = "none of the series occurrences is available"
	msgBusinessMismatch   = "businessId does not match X-Business-ID"
)

type Handler struct {
	useCase CreateSeriesUseCase
	logger  Logger
}

func NewHandler(useCase CreateSeriesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/series
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateSeriesRequest
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

	ucReq, err := req.ToUseCaseRequest(businessID)
	if err != nil {
		h.logger.Warn("%s - Invalid request: %v", route, err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, createSeries.ErrSeriesEmpty):
			h.logger.Warn("%s - Series is empty: business_id=%d", route, businessID)
			handlers.RespondBadRequest(w, msgSeriesEmpty)

		case errors.Is(err, createSeries.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: %v", route, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			if result != nil && len(result.Created) > 0 {
				h.logger.Error("%s - Series %s aborted after %d occurrences", route, result.SeriesID, len(result.Created))
			}
			handlers.RespondBookingError(w, h.logger, route, err)
		}
		return
	}

	h.logger.Info("%s - Series created: series_id=%s, created=%d, skipped=%d",
		route, result.SeriesID, len(result.Created), len(result.Skipped))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
