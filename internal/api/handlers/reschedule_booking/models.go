package reschedule_booking

import (
	"errors"
	"time"

	rescheduleBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/reschedule_booking"
)

// RescheduleRequest тело запроса на перенос
type RescheduleRequest struct {
	StartTime *time.Time `json:"startTime"`
	StaffID   *int64     `json:"staffId,omitempty"`
}

// ToUseCaseRequest конвертирует тело запроса в запрос use case
func (r *RescheduleRequest) ToUseCaseRequest(businessID, appointmentID int64) (*rescheduleBooking.Request, error) {
	if r.StartTime == nil {
		return nil, errors.New("startTime is required")
	}
	return &rescheduleBooking.Request{
		BusinessID:    businessID,
		AppointmentID: appointmentID,
		StartTime:     *r.StartTime,
		StaffID:       r.StaffID,
	}, nil
}
