package create_group_booking

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	createGroupBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_group_booking"
)

type CreateGroupBookingUseCase interface {
	Execute(ctx context.Context, req *createGroupBooking.Request) (*domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
