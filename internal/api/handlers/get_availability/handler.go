package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	getAvailability "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_availability"
)

const (
	route = "GET /availability"

	msgMissingParams   = "serviceId, locationId and date are required"
	msgInvalidID       = "serviceId, locationId and staffId must be positive integers"
	msgInvalidDate     = "invalid date format, expected YYYY-MM-DD"
	msgPastDate        = "Cannot check availability for past dates"
	msgServiceNotFound = "service not found"
	msgMissingBusiness = "missing business context"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: serviceId, locationId, date (YYYY-MM-DD), staffId (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingBusiness)
		return
	}

	serviceID, errService := handlers.QueryInt64(r, "serviceId")
	locationID, errLocation := handlers.QueryInt64(r, "locationId")
	staffID, errStaff := handlers.QueryInt64(r, "staffId")
	if err := errors.Join(errService, errLocation, errStaff); err != nil {
		h.logger.Warn("%s - Invalid id: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	date, err := handlers.QueryDate(r, "date")
	if err != nil {
		h.logger.Warn("%s - Invalid date: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if serviceID == nil || locationID == nil || date == nil {
		h.logger.Warn("%s - Missing required params", route)
		handlers.RespondBadRequest(w, msgMissingParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		BusinessID: businessID,
		ServiceID:  *serviceID,
		LocationID: *locationID,
		StaffID:    staffID,
		Date:       *date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrPastDate):
			h.logger.Warn("%s - Past date: %s", route, date.Format("2006-01-02"))
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: %v", route, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, getAvailability.ErrServiceNotFound):
			h.logger.Warn("%s - Service not found: service_id=%d", route, *serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			h.logger.Error("%s - Failed to get availability: service_id=%d, error=%v", route, *serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Availability calculated: service_id=%d, date=%s, slots=%d",
		route, *serviceID, date.Format("2006-01-02"), len(result.AllSlots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
