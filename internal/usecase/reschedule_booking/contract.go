package reschedule_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/notify"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
)

// AppointmentRepository интерфейс репозитория бронирований
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ListActiveStaffIntervals(ctx context.Context, staffID int64, window domain.TimeRange, excludeAppointmentID *int64) ([]domain.StaffInterval, error)
	Reschedule(ctx context.Context, a *domain.Appointment) error
}

// CatalogRepository интерфейс справочника услуг и сотрудников
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetStaff(ctx context.Context, id int64) (*domain.Staff, error)
	LockStaff(ctx context.Context, staffID int64) error
}

// AvailabilityChecker предварительная проверка слота без учёта переносимого бронирования
type AvailabilityChecker interface {
	CalculateExcluding(ctx context.Context, service *domain.Service, staff *domain.Staff, locationID int64, date time.Time, excludeID int64) (*availability.Result, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier очередь уведомлений
type Notifier interface {
	Enqueue(n notify.Notification) bool
}

// Metrics счетчики исходов бронирования
type Metrics interface {
	IncBooking(operation, outcome string)
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
