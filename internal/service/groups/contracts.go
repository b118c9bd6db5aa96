package groups

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// AppointmentRepository интерфейс репозитория бронирований и участников групп
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	CountParticipants(ctx context.Context, appointmentID int64) (int, error)
	AddParticipant(ctx context.Context, p *domain.GroupParticipant) error
	RemoveParticipant(ctx context.Context, appointmentID, clientID int64) error
	ListParticipants(ctx context.Context, appointmentID int64) ([]domain.GroupParticipant, error)
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
