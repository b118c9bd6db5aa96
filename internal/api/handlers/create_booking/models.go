package create_booking

import (
	"errors"
	"time"

	createBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
)

var errMixedServices = errors.New("use either serviceId/staffId/startTime or services, not both")

// CreateBookingRequest HTTP request model.
// Одна услуга передается плоскими полями, несколько через services.
type CreateBookingRequest struct {
	BusinessID *int64        `json:"businessId,omitempty"`
	LocationID int64         `json:"locationId"`
	ClientID   *int64        `json:"clientId,omitempty"`
	ServiceID  *int64        `json:"serviceId,omitempty"`
	StaffID    *int64        `json:"staffId,omitempty"`
	StartTime  *time.Time    `json:"startTime,omitempty"`
	Services   []ServiceLine `json:"services,omitempty"`
	Notes      *string       `json:"notes,omitempty"`
	Source     string        `json:"source,omitempty"`
}

// ServiceLine одна услуга в запросе
type ServiceLine struct {
	ServiceID int64     `json:"serviceId"`
	StaffID   int64     `json:"staffId"`
	StartTime time.Time `json:"startTime"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(businessID int64) (*createBooking.Request, error) {
	lines, err := r.lines()
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		BusinessID: businessID,
		LocationID: r.LocationID,
		ClientID:   r.ClientID,
		Services:   lines,
		Notes:      r.Notes,
		Source:     r.Source,
	}, nil
}

func (r *CreateBookingRequest) lines() ([]createBooking.ServiceLine, error) {
	flat := r.ServiceID != nil || r.StaffID != nil || r.StartTime != nil
	if flat && len(r.Services) > 0 {
		return nil, errMixedServices
	}

	if flat {
		line := createBooking.ServiceLine{}
		if r.ServiceID != nil {
			line.ServiceID = *r.ServiceID
		}
		if r.StaffID != nil {
			line.StaffID = *r.StaffID
		}
		if r.StartTime != nil {
			line.StartTime = *r.StartTime
		}
		return []createBooking.ServiceLine{line}, nil
	}

	lines := make([]createBooking.ServiceLine, len(r.Services))
	for i, s := range r.Services {
		lines[i] = createBooking.ServiceLine{ServiceID: s.ServiceID, StaffID: s.StaffID, StartTime: s.StartTime}
	}
	return lines, nil
}
