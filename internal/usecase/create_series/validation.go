package create_series

import (
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// validateRequest проверяет параметры серии, поля бронирования проверяет create_booking
func validateRequest(req *Request) error {
	if len(req.Services) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	if _, err := domain.ParseRecurrenceRule(string(req.Rule)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if req.Until.IsZero() {
		return fmt.Errorf("%w: until date is required", ErrInvalidInput)
	}

	return nil
}
