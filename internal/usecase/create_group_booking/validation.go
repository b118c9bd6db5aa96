package create_group_booking

import "fmt"

func validateRequest(req *Request) error {
	if req.MaxParticipants <= 0 {
		return fmt.Errorf("%w: maxParticipants must be positive", ErrInvalidInput)
	}

	if len(req.ClientIDs) == 0 {
		return fmt.Errorf("%w: at least one participant is required", ErrInvalidInput)
	}

	if len(req.ClientIDs) > req.MaxParticipants {
		return fmt.Errorf("%w: %d participants exceed maxParticipants=%d",
			ErrInvalidInput, len(req.ClientIDs), req.MaxParticipants)
	}

	return nil
}
