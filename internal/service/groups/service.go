package groups

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	clientRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/client"
)

// Service управление участниками групповых бронирований.
// Суммы бронирования фиксируются при создании по числу участников и здесь не пересчитываются.
type Service struct {
	appointmentRepo AppointmentRepository
	clientRepo      ClientRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса
func NewService(
	appointmentRepo AppointmentRepository,
	clientRepo ClientRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// AddParticipant добавляет клиента в группу. Количество участников проверяется
// под блокировкой строки бронирования, поэтому параллельные добавления не превысят лимит.
func (s *Service) AddParticipant(ctx context.Context, businessID, appointmentID, clientID int64) (*domain.GroupParticipant, error) {
	s.logger.Info("AddParticipant: appointment=%d, client=%d, business=%d", appointmentID, clientID, businessID)

	if appointmentID <= 0 || clientID <= 0 {
		return nil, fmt.Errorf("%w: appointmentId and clientId must be positive", ErrInvalidInput)
	}

	if err := s.checkClient(ctx, businessID, clientID); err != nil {
		return nil, err
	}

	participant := &domain.GroupParticipant{AppointmentID: appointmentID, ClientID: clientID}

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		a, err := s.getGroup(txCtx, "AddParticipant", businessID, appointmentID)
		if err != nil {
			return err
		}
		if !a.IsActive() {
			s.logger.Warn("AddParticipant: appointment id=%d has status=%s", appointmentID, a.Status)
			return ErrGroupClosed
		}

		count, err := s.appointmentRepo.CountParticipants(txCtx, appointmentID)
		if err != nil {
			s.logger.Error("AddParticipant: failed to count participants of appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: AddParticipant - count participants: %w", ErrInternal, err)
		}
		if !a.HasCapacity(count) {
			s.logger.Warn("AddParticipant: appointment id=%d is full (%d)", appointmentID, count)
			return ErrGroupFull
		}

		if err := s.appointmentRepo.AddParticipant(txCtx, participant); err != nil {
			if errors.Is(err, appointmentRepo.ErrParticipantExists) {
				s.logger.Warn("AddParticipant: client id=%d already in appointment id=%d", clientID, appointmentID)
				return ErrDuplicateParticipant
			}
			s.logger.Error("AddParticipant: failed to add client id=%d: %v", clientID, err)
			return fmt.Errorf("%w: AddParticipant - repository error: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, s.txError("AddParticipant", err)
	}

	s.logger.Info("AddParticipant: client id=%d joined appointment id=%d", clientID, appointmentID)
	return participant, nil
}

// RemoveParticipant удаляет клиента из группы
func (s *Service) RemoveParticipant(ctx context.Context, businessID, appointmentID, clientID int64) error {
	s.logger.Info("RemoveParticipant: appointment=%d, client=%d, business=%d", appointmentID, clientID, businessID)

	if _, err := s.getGroup(ctx, "RemoveParticipant", businessID, appointmentID); err != nil {
		return err
	}

	if err := s.appointmentRepo.RemoveParticipant(ctx, appointmentID, clientID); err != nil {
		s.logger.Error("RemoveParticipant: failed to remove client id=%d: %v", clientID, err)
		return fmt.Errorf("%w: RemoveParticipant - repository error: %w", ErrInternal, err)
	}
	return nil
}

// ListParticipants возвращает участников группы
func (s *Service) ListParticipants(ctx context.Context, businessID, appointmentID int64) ([]domain.GroupParticipant, error) {
	if _, err := s.getGroup(ctx, "ListParticipants", businessID, appointmentID); err != nil {
		return nil, err
	}

	participants, err := s.appointmentRepo.ListParticipants(ctx, appointmentID)
	if err != nil {
		s.logger.Error("ListParticipants: failed to list appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: ListParticipants - repository error: %w", ErrInternal, err)
	}
	return participants, nil
}

func (s *Service) getGroup(ctx context.Context, op string, businessID, appointmentID int64) (*domain.Appointment, error) {
	a, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: failed to get appointment id=%d: %v", op, appointmentID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
	if a.BusinessID != businessID {
		s.logger.Warn("%s: appointment id=%d belongs to another business", op, appointmentID)
		return nil, ErrAppointmentNotFound
	}
	if !a.IsGroupBooking {
		return nil, ErrNotGroupBooking
	}
	return a, nil
}

func (s *Service) checkClient(ctx context.Context, businessID, clientID int64) error {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			s.logger.Warn("AddParticipant: client id=%d not found", clientID)
			return ErrClientNotFound
		}
		s.logger.Error("AddParticipant: failed to get client id=%d: %v", clientID, err)
		return fmt.Errorf("%w: failed to get client: %w", ErrInternal, err)
	}
	if client.BusinessID != businessID {
		s.logger.Warn("AddParticipant: client id=%d belongs to another business", clientID)
		return ErrClientNotFound
	}
	return nil
}

func (s *Service) txError(op string, err error) error {
	for _, known := range []error{
		ErrAppointmentNotFound, ErrNotGroupBooking, ErrGroupClosed,
		ErrGroupFull, ErrDuplicateParticipant, ErrInternal,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	s.logger.Error("%s: transaction failed: %v", op, err)
	return fmt.Errorf("%w: %s - transaction failed: %w", ErrInternal, op, err)
}
