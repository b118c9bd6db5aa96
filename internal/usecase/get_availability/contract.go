package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
)

// Aggregator расчёт слотов по сотрудникам услуги
type Aggregator interface {
	Aggregate(ctx context.Context, q availability.AggregateQuery) (*availability.Aggregate, error)
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
