package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// CatalogRepository интерфейс справочника услуг и сотрудников
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetStaff(ctx context.Context, id int64) (*domain.Staff, error)
	ListStaffForService(ctx context.Context, serviceID, locationID int64) ([]*domain.Staff, error)
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	ListSchedules(ctx context.Context, staffID, locationID int64, weekday time.Weekday) ([]domain.StaffSchedule, error)
	ListApprovedTimeOff(ctx context.Context, staffID int64, date time.Time) ([]domain.TimeOff, error)
}

// AppointmentRepository интерфейс чтения занятых интервалов
type AppointmentRepository interface {
	ListActiveStaffIntervals(ctx context.Context, staffID int64, window domain.TimeRange, excludeAppointmentID *int64) ([]domain.StaffInterval, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
