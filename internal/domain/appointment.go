package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Appointment бронирование клиента (одна или несколько услуг подряд)
type Appointment struct {
	ID               int64
	BusinessID       int64
	LocationID       int64
	ClientID         *int64
	BookingReference string
	StartTime        time.Time
	EndTime          time.Time
	Status           AppointmentStatus
	Source           string

	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal

	Notes         *string
	InternalNotes *string

	// Повторяющаяся серия
	SeriesID            *string
	ParentAppointmentID *int64
	RecurrenceRule      *RecurrenceRule

	// Групповое бронирование
	IsGroupBooking  bool
	MaxParticipants *int

	ConfirmationSentAt *time.Time
	CheckedInAt        *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	NoShowAt           *time.Time
	CancellationReason *string
	CancelledBy        *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Services     []AppointmentService
	Participants []GroupParticipant

	// Клиент подгружается при чтении и не хранится в appointments
	Client *Client
}

// AppointmentService одна услуга внутри бронирования
type AppointmentService struct {
	ID              int64
	AppointmentID   int64
	ServiceID       int64
	StaffID         int64
	ServiceName     string
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Price           decimal.Decimal
	TaxAmount       decimal.Decimal
	Status          AppointmentStatus
}

// Range возвращает видимый клиенту интервал строки услуги
func (s *AppointmentService) Range() TimeRange {
	return TimeRange{Start: s.StartTime, End: s.EndTime}
}

// GroupParticipant участник группового бронирования
type GroupParticipant struct {
	AppointmentID int64
	ClientID      int64
	CreatedAt     time.Time
}

// StatusChange дополнительные данные перехода статуса
type StatusChange struct {
	Reason *string
	Actor  *string
}

// IsActive проверяет, занимает ли бронирование время сотрудника
func (a *Appointment) IsActive() bool {
	return a.Status.BlocksTime()
}

// IsSeriesMember проверяет, входит ли бронирование в повторяющуюся серию
func (a *Appointment) IsSeriesMember() bool {
	return a.SeriesID != nil
}

// HasCapacity проверяет, есть ли свободное место в групповом бронировании
func (a *Appointment) HasCapacity(current int) bool {
	if a.MaxParticipants == nil {
		return true
	}
	return current < *a.MaxParticipants
}

// RecalculateTotals пересчитывает начало/конец и суммы по строкам услуг
func (a *Appointment) RecalculateTotals() {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for i, s := range a.Services {
		if i == 0 || s.StartTime.Before(a.StartTime) {
			a.StartTime = s.StartTime
		}
		if i == 0 || s.EndTime.After(a.EndTime) {
			a.EndTime = s.EndTime
		}
		subtotal = subtotal.Add(s.Price)
		tax = tax.Add(s.TaxAmount)
	}
	a.Subtotal = subtotal
	a.TaxAmount = tax
	a.Total = subtotal.Add(tax)
}

// TransitionTo переводит бронирование в новый статус и проставляет временные метки
func (a *Appointment) TransitionTo(to AppointmentStatus, now time.Time, change StatusChange) error {
	if err := ValidateTransition(a.Status, to); err != nil {
		return err
	}

	a.Status = to
	a.UpdatedAt = now
	for i := range a.Services {
		a.Services[i].Status = to
	}

	switch to {
	case StatusConfirmed:
		a.ConfirmationSentAt = &now
	case StatusCheckedIn:
		a.CheckedInAt = &now
	case StatusCompleted:
		a.CompletedAt = &now
	case StatusCancelled:
		a.CancelledAt = &now
		a.CancellationReason = change.Reason
		a.CancelledBy = change.Actor
	case StatusNoShow:
		a.NoShowAt = &now
	}
	return nil
}

// StaffIDs возвращает отсортированные ID сотрудников всех строк
func (a *Appointment) StaffIDs() []int64 {
	seen := make(map[int64]struct{}, len(a.Services))
	ids := make([]int64, 0, len(a.Services))
	for _, line := range a.Services {
		if _, ok := seen[line.StaffID]; ok {
			continue
		}
		seen[line.StaffID] = struct{}{}
		ids = append(ids, line.StaffID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Shift сдвигает бронирование и все его строки на delta
func (a *Appointment) Shift(delta time.Duration) {
	a.StartTime = a.StartTime.Add(delta)
	a.EndTime = a.EndTime.Add(delta)
	for i := range a.Services {
		a.Services[i].StartTime = a.Services[i].StartTime.Add(delta)
		a.Services[i].EndTime = a.Services[i].EndTime.Add(delta)
	}
}

// StaffInterval занятый интервал сотрудника (активная строка услуги)
type StaffInterval struct {
	AppointmentID int64
	StaffID       int64
	Range         TimeRange
}

// AppointmentFilter фильтр списка бронирований
type AppointmentFilter struct {
	BusinessID int64
	LocationID *int64
	StaffID    *int64
	ClientID   *int64
	Status     *AppointmentStatus
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}
