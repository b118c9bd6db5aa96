package create_booking

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

	if req.LocationID <= 0 {
		return fmt.Errorf("%w: locationId must be positive", ErrInvalidInput)
	}

	if req.ClientID != nil && *req.ClientID <= 0 {
		return fmt.Errorf("%w: clientId must be positive", ErrInvalidInput)
	}

	if len(req.Services) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if len(req.Services) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d services per booking", ErrInvalidInput, domain.MaxServicesPerBooking)
	}

	for i, line := range req.Services {
		if line.ServiceID <= 0 || line.StaffID <= 0 {
			return fmt.Errorf("%w: services[%d]: serviceId and staffId must be positive", ErrInvalidInput, i)
		}
		if line.StartTime.IsZero() {
			return fmt.Errorf("%w: services[%d]: startTime is required", ErrInvalidInput, i)
		}
		if line.StartTime.Before(now) {
			return fmt.Errorf("%w: services[%d]: startTime is in the past", ErrInvalidInput, i)
		}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if !isValidSource(req.Source) {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidInput, req.Source)
	}

	if req.Group != nil {
		if err := validateGroup(req); err != nil {
			return err
		}
	}

	return nil
}

func validateGroup(req *Request) error {
	if req.ClientID != nil {
		return fmt.Errorf("%w: group booking takes participants instead of clientId", ErrInvalidInput)
	}
	if len(req.Services) != 1 {
		return fmt.Errorf("%w: group booking must have exactly one service", ErrInvalidInput)
	}
	if req.Group.MaxParticipants <= 0 || req.Group.MaxParticipants > domain.MaxGroupParticipants {
		return fmt.Errorf("%w: maxParticipants must be between 1 and %d", ErrInvalidInput, domain.MaxGroupParticipants)
	}
	if len(req.Group.ClientIDs) == 0 {
		return fmt.Errorf("%w: at least one participant is required", ErrInvalidInput)
	}
	if len(req.Group.ClientIDs) > req.Group.MaxParticipants {
		return fmt.Errorf("%w: %d participants exceed maxParticipants=%d",
			ErrInvalidInput, len(req.Group.ClientIDs), req.Group.MaxParticipants)
	}

	seen := make(map[int64]struct{}, len(req.Group.ClientIDs))
	for _, id := range req.Group.ClientIDs {
		if id <= 0 {
			return fmt.Errorf("%w: participant id must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate participant id=%d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func isValidSource(source string) bool {
	switch source {
	case "", domain.SourceOnline, domain.SourceFrontDesk, domain.SourcePhone, domain.SourceWalkIn:
		return true
	}
	return false
}

// validateLinesDisjoint проверяет, что строки одного сотрудника в запросе не пересекаются
func validateLinesDisjoint(lines []domain.AppointmentService) error {
	for i := range lines {
		for j := i + 1; j < len(lines); j++ {
			if lines[i].StaffID == lines[j].StaffID && lines[i].Range().Overlaps(lines[j].Range()) {
				return fmt.Errorf("%w: services %q and %q overlap for the same staff member",
					ErrInvalidInput, lines[i].ServiceName, lines[j].ServiceName)
			}
		}
	}
	return nil
}
