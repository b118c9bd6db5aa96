package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
)

// EmptyReason причина, по которой сотрудник не получил слотов
type EmptyReason string

const (
	ReasonNone             EmptyReason = ""
	ReasonStaffUnavailable EmptyReason = "staff_unavailable"
	ReasonTimeOff          EmptyReason = "time_off"
	ReasonNoSchedule       EmptyReason = "no_schedule"
)

// Query запрос слотов одного сотрудника на одну дату
type Query struct {
	ServiceID  int64
	StaffID    int64
	LocationID int64
	Date       time.Time // полночь даты в часовом поясе салона
}

// Result слоты сотрудника и разрешённая услуга
type Result struct {
	Service      *domain.Service
	Availability domain.StaffAvailability
	Reason       EmptyReason
}

// HasSlotAt проверяет, есть ли слот с видимым началом start
func (r *Result) HasSlotAt(start time.Time) bool {
	for _, slot := range r.Availability.Slots {
		if slot.StartTime.Equal(start) {
			return true
		}
	}
	return false
}

// Calculator считает свободные слоты одного сотрудника.
// Каждый расчёт перечитывает расписание и бронирования, кэша нет.
type Calculator struct {
	catalog      CatalogRepository
	schedules    ScheduleRepository
	appointments AppointmentRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewCalculator создает новый экземпляр калькулятора слотов
func NewCalculator(
	catalog CatalogRepository,
	schedules ScheduleRepository,
	appointments AppointmentRepository,
	timeProvider TimeProvider,
	logger Logger,
) *Calculator {
	return &Calculator{
		catalog:      catalog,
		schedules:    schedules,
		appointments: appointments,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Calculate возвращает упорядоченные слоты сотрудника на дату
func (c *Calculator) Calculate(ctx context.Context, q Query) (*Result, error) {
	service, err := c.getService(ctx, q.ServiceID)
	if err != nil {
		return nil, err
	}

	staff, err := c.catalog.GetStaff(ctx, q.StaffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			c.logger.Warn("Calculate: staff id=%d not found", q.StaffID)
			return &Result{
				Service:      service,
				Availability: domain.StaffAvailability{StaffID: q.StaffID, Slots: []domain.AvailableSlot{}},
				Reason:       ReasonStaffUnavailable,
			}, nil
		}
		c.logger.Error("Calculate: failed to get staff id=%d: %v", q.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %w", ErrInternal, err)
	}

	return c.CalculateForStaff(ctx, service, staff, q.LocationID, q.Date)
}

// CalculateForStaff считает слоты для уже загруженных услуги и сотрудника
func (c *Calculator) CalculateForStaff(ctx context.Context, service *domain.Service, staff *domain.Staff, locationID int64, date time.Time) (*Result, error) {
	return c.calculate(ctx, service, staff, locationID, date, nil)
}

// CalculateExcluding считает слоты, не учитывая бронирование excludeID
// (для переноса этого бронирования)
func (c *Calculator) CalculateExcluding(ctx context.Context, service *domain.Service, staff *domain.Staff, locationID int64, date time.Time, excludeID int64) (*Result, error) {
	return c.calculate(ctx, service, staff, locationID, date, &excludeID)
}

func (c *Calculator) calculate(ctx context.Context, service *domain.Service, staff *domain.Staff, locationID int64, date time.Time, excludeID *int64) (*Result, error) {
	result := &Result{
		Service: service,
		Availability: domain.StaffAvailability{
			StaffID:   staff.ID,
			StaffName: staff.Name,
			Slots:     []domain.AvailableSlot{},
		},
	}

	if !staff.IsBookable() {
		result.Reason = ReasonStaffUnavailable
		return result, nil
	}

	timeOff, err := c.schedules.ListApprovedTimeOff(ctx, staff.ID, date)
	if err != nil {
		c.logger.Error("Calculate: failed to get time off for staff id=%d: %v", staff.ID, err)
		return nil, fmt.Errorf("%w: failed to get time off: %w", ErrInternal, err)
	}
	for i := range timeOff {
		if timeOff[i].BlocksWholeDay(date) {
			result.Reason = ReasonTimeOff
			return result, nil
		}
	}

	schedules, err := c.schedules.ListSchedules(ctx, staff.ID, locationID, date.Weekday())
	if err != nil {
		c.logger.Error("Calculate: failed to get schedules for staff id=%d: %v", staff.ID, err)
		return nil, fmt.Errorf("%w: failed to get schedules: %w", ErrInternal, err)
	}
	schedule, ok := domain.SelectSchedule(schedules, date)
	if !ok {
		result.Reason = ReasonNoSchedule
		return result, nil
	}

	working := schedule.WorkingRange(date)
	booked, err := c.appointments.ListActiveStaffIntervals(ctx, staff.ID, working, excludeID)
	if err != nil {
		c.logger.Error("Calculate: failed to get bookings for staff id=%d: %v", staff.ID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}

	blocked := buildBlockedRanges(date, booked, schedule, timeOff)
	plan := domain.NewSlotPlan(service, staff)
	earliest := earliestStart(date, c.timeProvider.Now())

	for _, visible := range walkSlots(working, plan, blocked, earliest) {
		result.Availability.Slots = append(result.Availability.Slots, domain.AvailableSlot{
			StaffID:   staff.ID,
			StaffName: staff.Name,
			StartTime: visible.Start,
			EndTime:   visible.End,
		})
	}

	return result, nil
}

func (c *Calculator) getService(ctx context.Context, serviceID int64) (*domain.Service, error) {
	service, err := c.catalog.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			c.logger.Warn("Calculate: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		c.logger.Error("Calculate: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}
	if !service.IsActive {
		c.logger.Warn("Calculate: service id=%d is inactive", serviceID)
		return nil, ErrServiceNotFound
	}
	return service, nil
}

// buildBlockedRanges собирает бронирования, перерывы и частичные отгулы на дату
func buildBlockedRanges(date time.Time, booked []domain.StaffInterval, schedule *domain.StaffSchedule, timeOff []domain.TimeOff) domain.BlockedRanges {
	bookings := make([]domain.TimeRange, 0, len(booked))
	for _, b := range booked {
		bookings = append(bookings, b.Range)
	}

	partial := make([]domain.TimeRange, 0)
	for i := range timeOff {
		if r, ok := timeOff[i].RangeOn(date); ok {
			partial = append(partial, r)
		}
	}

	return domain.NewBlockedRanges(bookings, schedule.BreakRanges(date), partial)
}
