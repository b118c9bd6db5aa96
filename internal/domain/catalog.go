package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Service услуга салона
type Service struct {
	ID                  int64
	BusinessID          int64
	Name                string
	DurationMinutes     int
	BufferBeforeMinutes int
	BufferAfterMinutes  int
	Price               decimal.Decimal
	TaxRate             decimal.Decimal // процент, например 8.25
	IsTaxable           bool
	IsActive            bool
}

// Duration длительность услуги, которую видит клиент
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// BufferBefore буфер на подготовку перед услугой
func (s *Service) BufferBefore() time.Duration {
	return time.Duration(s.BufferBeforeMinutes) * time.Minute
}

// TaxAmount налог за одну услугу, округлённый до копеек
func (s *Service) TaxAmount() decimal.Decimal {
	if !s.IsTaxable || s.TaxRate.IsZero() {
		return decimal.Zero
	}
	return s.Price.Mul(s.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
}

// Staff сотрудник салона
type Staff struct {
	ID                   int64
	BusinessID           int64
	Name                 string
	BookingBufferMinutes int
	CanAcceptBookings    bool
	IsActive             bool
}

// IsBookable проверяет, может ли сотрудник принимать новые записи
func (s *Staff) IsBookable() bool {
	return s.IsActive && s.CanAcceptBookings
}

// SlotPlan длительности, из которых складывается занятое время одного слота
type SlotPlan struct {
	Duration     time.Duration // видимое клиенту время услуги
	BufferBefore time.Duration
	BufferAfter  time.Duration
	StaffBuffer  time.Duration
}

// NewSlotPlan собирает план слота из услуги и сотрудника
func NewSlotPlan(service *Service, staff *Staff) SlotPlan {
	return SlotPlan{
		Duration:     service.Duration(),
		BufferBefore: service.BufferBefore(),
		BufferAfter:  time.Duration(service.BufferAfterMinutes) * time.Minute,
		StaffBuffer:  time.Duration(staff.BookingBufferMinutes) * time.Minute,
	}
}

// Total полная длительность, которую слот занимает в расписании сотрудника
func (p SlotPlan) Total() time.Duration {
	return p.Duration + p.BufferBefore + p.BufferAfter + p.StaffBuffer
}

// Reserved интервал, резервируемый слотом, начинающимся в start
func (p SlotPlan) Reserved(start time.Time) TimeRange {
	return NewTimeRange(start, p.Total())
}

// Visible интервал, который видит клиент для слота, начинающегося в start
func (p SlotPlan) Visible(start time.Time) TimeRange {
	return NewTimeRange(start.Add(p.BufferBefore), p.Duration)
}

// Client клиент салона
type Client struct {
	ID            int64
	BusinessID    int64
	FirstName     string
	LastName      string
	Email         *string
	Phone         *string
	VisitCount    int
	LastVisitAt   *time.Time
	LifetimeSpend decimal.Decimal
}

// HasContactInfo проверяет, есть ли у клиента контакт для уведомлений
func (c *Client) HasContactInfo() bool {
	return (c.Email != nil && strings.TrimSpace(*c.Email) != "") ||
		(c.Phone != nil && strings.TrimSpace(*c.Phone) != "")
}

// FullName имя клиента для отображения
func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
