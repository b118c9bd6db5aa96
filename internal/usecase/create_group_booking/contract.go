package create_group_booking

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
)

// BookingCreator общий примитив создания бронирования
type BookingCreator interface {
	Execute(ctx context.Context, req *create_booking.Request) (*domain.Appointment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
