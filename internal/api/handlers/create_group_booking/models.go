package create_group_booking

import (
	"time"

	createGroupBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_group_booking"
)

// CreateGroupBookingRequest HTTP request model
type CreateGroupBookingRequest struct {
	BusinessID      *int64    `json:"businessId,omitempty"`
	LocationID      int64     `json:"locationId"`
	ServiceID       int64     `json:"serviceId"`
	StaffID         int64     `json:"staffId"`
	StartTime       time.Time `json:"startTime"`
	MaxParticipants int       `json:"maxParticipants"`
	ClientIDs       []int64   `json:"clientIds"`
	Notes           *string   `json:"notes,omitempty"`
	Source          string    `json:"source,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateGroupBookingRequest) ToUseCaseRequest(businessID int64) *createGroupBooking.Request {
	return &createGroupBooking.Request{
		BusinessID:      businessID,
		LocationID:      r.LocationID,
		ServiceID:       r.ServiceID,
		StaffID:         r.StaffID,
		StartTime:       r.StartTime,
		MaxParticipants: r.MaxParticipants,
		ClientIDs:       r.ClientIDs,
		Notes:           r.Notes,
		Source:          r.Source,
	}
}
