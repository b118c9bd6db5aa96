package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модели

// UpdateRequest частичное обновление бронирования, nil поля не меняются
type UpdateRequest struct {
	Status             *string `json:"status,omitempty"`
	Notes              *string `json:"notes,omitempty"`
	InternalNotes      *string `json:"internalNotes,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledBy        *string `json:"cancelledBy,omitempty"`
}

// CancelRequest запрос на отмену бронирования
type CancelRequest struct {
	Reason      *string `json:"reason,omitempty"`
	CancelledBy *string `json:"cancelledBy,omitempty"`
}

// ListRequest фильтр списка бронирований бизнеса
type ListRequest struct {
	LocationID *int64
	StaffID    *int64
	ClientID   *int64
	Status     *string
	DateFrom   *time.Time // включительно
	DateTo     *time.Time // исключительно
	Limit      int
	Offset     int
}

// CancelSeriesRequest запрос на отмену серии
type CancelSeriesRequest struct {
	SeriesID string
	From     *time.Time
	Reason   string
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListRequest) ToDomainFilter(businessID int64) (domain.AppointmentFilter, error) {
	filter := domain.AppointmentFilter{
		BusinessID: businessID,
		LocationID: r.LocationID,
		StaffID:    r.StaffID,
		ClientID:   r.ClientID,
		DateFrom:   r.DateFrom,
		DateTo:     r.DateTo,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}

	if r.Status != nil {
		status, err := domain.ParseAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными бронирования
type AppointmentResponse struct {
	ID               int64     `json:"id"`
	BusinessID       int64     `json:"businessId"`
	LocationID       int64     `json:"locationId"`
	ClientID         *int64    `json:"clientId,omitempty"`
	BookingReference string    `json:"bookingReference"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	Status           string    `json:"status"`
	Source           string    `json:"source"`

	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`

	Notes         *string `json:"notes,omitempty"`
	InternalNotes *string `json:"internalNotes,omitempty"`

	SeriesID            *string `json:"seriesId,omitempty"`
	ParentAppointmentID *int64  `json:"parentAppointmentId,omitempty"`
	RecurrenceRule      *string `json:"recurrenceRule,omitempty"`

	IsGroupBooking  bool                  `json:"isGroupBooking"`
	MaxParticipants *int                  `json:"maxParticipants,omitempty"`
	Participants    []ParticipantResponse `json:"participants,omitempty"`

	ConfirmationSentAt *time.Time `json:"confirmationSentAt,omitempty"`
	CheckedInAt        *time.Time `json:"checkedInAt,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	NoShowAt           *time.Time `json:"noShowAt,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledBy        *string    `json:"cancelledBy,omitempty"`

	Client   *ClientSummary        `json:"client,omitempty"`
	Services []ServiceLineResponse `json:"services"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ClientSummary краткие данные клиента бронирования
type ClientSummary struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// ServiceLineResponse строка услуги в бронировании
type ServiceLineResponse struct {
	ID              int64           `json:"id"`
	ServiceID       int64           `json:"serviceId"`
	StaffID         int64           `json:"staffId"`
	ServiceName     string          `json:"serviceName"`
	StartTime       time.Time       `json:"startTime"`
	EndTime         time.Time       `json:"endTime"`
	DurationMinutes int             `json:"durationMinutes"`
	Price           decimal.Decimal `json:"price"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	Status          string          `json:"status"`
}

// ParticipantResponse участник группового бронирования
type ParticipantResponse struct {
	ClientID  int64     `json:"clientId"`
	CreatedAt time.Time `json:"createdAt"`
}

// AppointmentListResponse ответ со списком бронирований
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// CancelSeriesResponse результат отмены серии
type CancelSeriesResponse struct {
	SeriesID       string  `json:"seriesId"`
	CancelledCount int     `json:"cancelledCount"`
	AppointmentIDs []int64 `json:"appointmentIds"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                  a.ID,
		BusinessID:          a.BusinessID,
		LocationID:          a.LocationID,
		ClientID:            a.ClientID,
		BookingReference:    a.BookingReference,
		StartTime:           a.StartTime,
		EndTime:             a.EndTime,
		Status:              string(a.Status),
		Source:              a.Source,
		Subtotal:            a.Subtotal,
		TaxAmount:           a.TaxAmount,
		Total:               a.Total,
		Notes:               a.Notes,
		InternalNotes:       a.InternalNotes,
		SeriesID:            a.SeriesID,
		ParentAppointmentID: a.ParentAppointmentID,
		IsGroupBooking:      a.IsGroupBooking,
		MaxParticipants:     a.MaxParticipants,
		ConfirmationSentAt:  a.ConfirmationSentAt,
		CheckedInAt:         a.CheckedInAt,
		CompletedAt:         a.CompletedAt,
		NoShowAt:            a.NoShowAt,
		CancelledAt:         a.CancelledAt,
		CancellationReason:  a.CancellationReason,
		CancelledBy:         a.CancelledBy,
		Services:            make([]ServiceLineResponse, len(a.Services)),
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}

	if a.RecurrenceRule != nil {
		rule := string(*a.RecurrenceRule)
		resp.RecurrenceRule = &rule
	}

	for i, s := range a.Services {
		resp.Services[i] = ServiceLineResponse{
			ID:              s.ID,
			ServiceID:       s.ServiceID,
			StaffID:         s.StaffID,
			ServiceName:     s.ServiceName,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price,
			TaxAmount:       s.TaxAmount,
			Status:          string(s.Status),
		}
	}

	if a.IsGroupBooking {
		resp.Participants = FromDomainParticipants(a.Participants)
	}

	if a.Client != nil {
		resp.Client = &ClientSummary{
			ID:        a.Client.ID,
			FirstName: a.Client.FirstName,
			LastName:  a.Client.LastName,
			Email:     a.Client.Email,
			Phone:     a.Client.Phone,
		}
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if item := FromDomainAppointment(a); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}

	return resp
}

// FromDomainParticipants конвертирует участников группы
func FromDomainParticipants(participants []domain.GroupParticipant) []ParticipantResponse {
	resp := make([]ParticipantResponse, len(participants))
	for i, p := range participants {
		resp[i] = ParticipantResponse{ClientID: p.ClientID, CreatedAt: p.CreatedAt}
	}
	return resp
}
