package participants

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type GroupService interface {
	AddParticipant(ctx context.Context, businessID, appointmentID, clientID int64) (*domain.GroupParticipant, error)
	RemoveParticipant(ctx context.Context, businessID, appointmentID, clientID int64) error
	ListParticipants(ctx context.Context, businessID, appointmentID int64) ([]domain.GroupParticipant, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
