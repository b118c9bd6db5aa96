package reschedule_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessId must be positive", ErrInvalidInput)
	}

	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointment id must be positive", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.StartTime.Before(now) {
		return fmt.Errorf("%w: startTime is in the past", ErrInvalidInput)
	}

	return nil
}

// canReschedule переносить можно только бронирования, которые ещё не начались
func canReschedule(status domain.AppointmentStatus) bool {
	return status == domain.StatusPending || status == domain.StatusConfirmed
}
