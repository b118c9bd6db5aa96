package create_series

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	createSeries "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_series"
)

// CreateSeriesRequest HTTP request model, services задают первое вхождение
type CreateSeriesRequest struct {
	BusinessID     *int64        `json:"businessId,omitempty"`
	LocationID     int64         `json:"locationId"`
	ClientID       *int64        `json:"clientId,omitempty"`
	Services       []ServiceLine `json:"services"`
	Notes          *string       `json:"notes,omitempty"`
	Source         string        `json:"source,omitempty"`
	RecurrenceRule string        `json:"recurrenceRule"`
	Until          string        `json:"until"` // YYYY-MM-DD
}

// ServiceLine одна услуга первого вхождения
type ServiceLine struct {
	ServiceID int64     `json:"serviceId"`
	StaffID   int64     `json:"staffId"`
	StartTime time.Time `json:"startTime"`
}

// SeriesResponse ответ с созданными и пропущенными вхождениями
type SeriesResponse struct {
	SeriesID       string                       `json:"seriesId"`
	RecurrenceRule string                       `json:"recurrenceRule"`
	Created        []models.AppointmentResponse `json:"created"`
	Skipped        []SkippedDTO                 `json:"skipped"`
}

// SkippedDTO пропущенное вхождение
type SkippedDTO struct {
	Date    string `json:"date"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateSeriesRequest) ToUseCaseRequest(businessID int64) (*createSeries.Request, error) {
	rule, err := domain.ParseRecurrenceRule(r.RecurrenceRule)
	if err != nil {
		return nil, err
	}

	if r.Until == "" {
		return nil, errors.New("until is required")
	}
	until, err := time.Parse(domain.DateFormat, r.Until)
	if err != nil {
		return nil, fmt.Errorf("invalid until date, expected YYYY-MM-DD: %w", err)
	}

	lines := make([]createBooking.ServiceLine, len(r.Services))
	for i, s := range r.Services {
		lines[i] = createBooking.ServiceLine{ServiceID: s.ServiceID, StaffID: s.StaffID, StartTime: s.StartTime}
	}

	return &createSeries.Request{
		BusinessID: businessID,
		LocationID: r.LocationID,
		ClientID:   r.ClientID,
		Services:   lines,
		Notes:      r.Notes,
		Source:     r.Source,
		Rule:       rule,
		Until:      until,
	}, nil
}

// FromUseCaseResponse конвертирует результат use case в DTO
func FromUseCaseResponse(resp *createSeries.Response) *SeriesResponse {
	dto := &SeriesResponse{
		SeriesID:       resp.SeriesID,
		RecurrenceRule: string(resp.Rule),
		Created:        make([]models.AppointmentResponse, 0, len(resp.Created)),
		Skipped:        make([]SkippedDTO, 0, len(resp.Skipped)),
	}
	for _, a := range resp.Created {
		dto.Created = append(dto.Created, *models.FromDomainAppointment(a))
	}
	for _, s := range resp.Skipped {
		dto.Skipped = append(dto.Skipped, SkippedDTO{
			Date:    s.Date.Format(domain.DateFormat),
			Reason:  s.Reason,
			Message: s.Message,
		})
	}
	return dto
}
