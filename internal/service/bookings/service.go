package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	clientRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/client"
	"github.com/m04kA/SMC-SalonBooking/internal/notify"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200

	defaultSeriesCancellationReason = "Series cancelled"
)

// Service сервис чтения и изменения бронирований
type Service struct {
	appointmentRepo AppointmentRepository
	clientRepo      ClientRepository
	txManager       TransactionManager
	notifier        Notifier
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	appointmentRepo AppointmentRepository,
	clientRepo ClientRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		txManager:       txManager,
		notifier:        notifier,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает бронирование бизнеса по ID
func (s *Service) GetByID(ctx context.Context, businessID, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for business=%d", id, businessID)

	a, err := s.getOwned(ctx, "GetByID", businessID, id)
	if err != nil {
		return nil, err
	}
	s.attachClient(ctx, "GetByID", a)

	return models.FromDomainAppointment(a), nil
}

// GetByReference получает бронирование по публичному номеру
func (s *Service) GetByReference(ctx context.Context, businessID int64, reference string) (*models.AppointmentResponse, error) {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	s.logger.Info("GetByReference: fetching appointment ref=%s for business=%d", reference, businessID)

	if !domain.IsValidBookingReference(reference) {
		s.logger.Warn("GetByReference: malformed reference %q", reference)
		return nil, fmt.Errorf("%w: malformed booking reference", ErrInvalidInput)
	}

	a, err := s.appointmentRepo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByReference: appointment ref=%s not found", reference)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByReference: repository error for ref=%s: %v", reference, err)
		return nil, fmt.Errorf("%w: GetByReference - repository error: %w", ErrInternal, err)
	}
	if a.BusinessID != businessID {
		s.logger.Warn("GetByReference: appointment ref=%s belongs to another business", reference)
		return nil, ErrAppointmentNotFound
	}
	s.attachClient(ctx, "GetByReference", a)

	return models.FromDomainAppointment(a), nil
}

// List получает бронирования бизнеса с фильтрацией
func (s *Service) List(ctx context.Context, businessID int64, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: fetching appointments for business=%d", businessID)

	filter, err := req.ToDomainFilter(businessID)
	if err != nil {
		s.logger.Warn("List: invalid filter for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if filter.DateFrom != nil && filter.DateTo != nil && !filter.DateFrom.Before(*filter.DateTo) {
		return nil, fmt.Errorf("%w: dateFrom must be before dateTo", ErrInvalidInput)
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	}
	if filter.Limit == 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d appointments for business=%d", len(appointments), businessID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Update частично обновляет бронирование. Смена статуса проходит через машину
// состояний под блокировкой строки бронирования.
func (s *Service) Update(ctx context.Context, businessID, id int64, req *models.UpdateRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Update: updating appointment id=%d for business=%d", id, businessID)

	// 1. Валидация входных данных
	target, err := validateUpdate(req)
	if err != nil {
		s.logger.Warn("Update: validation failed for appointment id=%d: %v", id, err)
		return nil, err
	}

	now := s.timeProvider.Now()
	var (
		updated    *domain.Appointment
		transition bool
	)

	// 2. Изменение в транзакции
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		a, err := s.getOwned(txCtx, "Update", businessID, id)
		if err != nil {
			return err
		}

		if target != nil {
			if err := a.TransitionTo(*target, now, domain.StatusChange{
				Reason: req.CancellationReason,
				Actor:  req.CancelledBy,
			}); err != nil {
				s.logger.Warn("Update: appointment id=%d: %v", id, err)
				return err
			}
			transition = true
		}
		if req.Notes != nil {
			a.Notes = req.Notes
		}
		if req.InternalNotes != nil {
			a.InternalNotes = req.InternalNotes
		}
		a.UpdatedAt = now

		if err := s.save(txCtx, "Update", a); err != nil {
			return err
		}

		// Завершённый визит увеличивает сумму покупок клиента
		if transition && a.Status == domain.StatusCompleted && a.ClientID != nil {
			if err := s.clientRepo.AddLifetimeSpend(txCtx, *a.ClientID, a.Total); err != nil {
				s.logger.Error("Update: failed to add lifetime spend for client id=%d: %v", *a.ClientID, err)
				return fmt.Errorf("%w: Update - add lifetime spend: %w", ErrInternal, err)
			}
		}

		updated = a
		return nil
	})
	if err != nil {
		return nil, s.txError("Update", err)
	}

	s.logger.Info("Update: appointment id=%d now has status=%s", id, updated.Status)
	s.attachClient(ctx, "Update", updated)

	// 3. Уведомление об отмене
	if transition && updated.Status == domain.StatusCancelled {
		s.notifyCancelled(ctx, updated)
	}

	return models.FromDomainAppointment(updated), nil
}

// Cancel мягко отменяет бронирование
func (s *Service) Cancel(ctx context.Context, businessID, id int64, req *models.CancelRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d for business=%d", id, businessID)

	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	now := s.timeProvider.Now()
	var cancelled *domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		a, err := s.getOwned(txCtx, "Cancel", businessID, id)
		if err != nil {
			return err
		}

		if a.Status == domain.StatusCompleted || a.Status == domain.StatusCancelled {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, a.Status)
			return fmt.Errorf("%w: status %s", ErrCannotCancel, a.Status)
		}

		if err := a.TransitionTo(domain.StatusCancelled, now, domain.StatusChange{
			Reason: req.Reason,
			Actor:  req.CancelledBy,
		}); err != nil {
			s.logger.Warn("Cancel: appointment id=%d: %v", id, err)
			return err
		}

		if err := s.save(txCtx, "Cancel", a); err != nil {
			return err
		}
		cancelled = a
		return nil
	})
	if err != nil {
		return s.txError("Cancel", err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)
	s.notifyCancelled(ctx, cancelled)
	return nil
}

// CancelSeries отменяет все ещё активные вхождения серии начиная с даты from
func (s *Service) CancelSeries(ctx context.Context, businessID int64, req *models.CancelSeriesRequest) (*models.CancelSeriesResponse, error) {
	s.logger.Info("CancelSeries: cancelling series=%s for business=%d", req.SeriesID, businessID)

	if _, err := uuid.Parse(req.SeriesID); err != nil {
		s.logger.Warn("CancelSeries: invalid series id %q", req.SeriesID)
		return nil, fmt.Errorf("%w: invalid series id", ErrInvalidInput)
	}
	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	reason := req.Reason
	if reason == "" {
		reason = defaultSeriesCancellationReason
	}

	now := s.timeProvider.Now()
	var ids []int64

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		ids, err = s.appointmentRepo.CancelSeries(txCtx, businessID, req.SeriesID, req.From, reason, now)
		if err != nil {
			s.logger.Error("CancelSeries: repository error for series=%s: %v", req.SeriesID, err)
			return fmt.Errorf("%w: CancelSeries - repository error: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, s.txError("CancelSeries", err)
	}

	s.logger.Info("CancelSeries: cancelled %d appointments of series=%s", len(ids), req.SeriesID)

	if len(ids) > 0 {
		seriesID := req.SeriesID
		if !s.notifier.Enqueue(notify.Notification{
			Kind:           notify.KindSeriesCancelled,
			BusinessID:     businessID,
			AppointmentID:  ids[0],
			SeriesID:       &seriesID,
			AppointmentIDs: ids,
			Reason:         &reason,
		}) {
			s.logger.Warn("CancelSeries: notification for series=%s was not queued", req.SeriesID)
		}
	}

	return &models.CancelSeriesResponse{
		SeriesID:       req.SeriesID,
		CancelledCount: len(ids),
		AppointmentIDs: ids,
	}, nil
}

// Вспомогательные методы

// getOwned загружает бронирование и скрывает чужие бронирования как несуществующие
func (s *Service) getOwned(ctx context.Context, op string, businessID, id int64) (*domain.Appointment, error) {
	a, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
	if a.BusinessID != businessID {
		s.logger.Warn("%s: appointment id=%d belongs to business=%d", op, id, a.BusinessID)
		return nil, ErrAppointmentNotFound
	}
	return a, nil
}

// attachClient подгружает клиента для ответа. Ошибка чтения клиента не ломает ответ
func (s *Service) attachClient(ctx context.Context, op string, a *domain.Appointment) {
	if a.ClientID == nil || a.Client != nil {
		return
	}
	client, err := s.clientRepo.GetByID(ctx, *a.ClientID)
	if err != nil {
		s.logger.Warn("%s: failed to load client id=%d for appointment id=%d: %v", op, *a.ClientID, a.ID, err)
		return
	}
	a.Client = client
}

func (s *Service) save(ctx context.Context, op string, a *domain.Appointment) error {
	if err := s.appointmentRepo.Update(ctx, a); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d disappeared during update", op, a.ID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, a.ID, err)
		return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
	return nil
}

// txError оставляет известные ошибки как есть, остальное считает внутренней ошибкой
func (s *Service) txError(op string, err error) error {
	switch {
	case errors.Is(err, ErrAppointmentNotFound),
		errors.Is(err, ErrCannotCancel),
		errors.Is(err, ErrInternal),
		errors.Is(err, domain.ErrInvalidTransition):
		return err
	}
	s.logger.Error("%s: transaction failed: %v", op, err)
	return fmt.Errorf("%w: %s - transaction failed: %w", ErrInternal, op, err)
}

// notifyCancelled ставит уведомление об отмене, если клиенту есть куда его отправить
func (s *Service) notifyCancelled(ctx context.Context, a *domain.Appointment) {
	if a.ClientID == nil {
		return
	}

	client, err := s.clientRepo.GetByID(ctx, *a.ClientID)
	if err != nil {
		if !errors.Is(err, clientRepo.ErrClientNotFound) {
			s.logger.Error("notifyCancelled: failed to get client id=%d: %v", *a.ClientID, err)
		}
		return
	}
	if !client.HasContactInfo() {
		return
	}

	if !s.notifier.Enqueue(notify.Notification{
		Kind:             notify.KindBookingCancelled,
		BusinessID:       a.BusinessID,
		AppointmentID:    a.ID,
		BookingReference: a.BookingReference,
		ClientID:         a.ClientID,
		StartTime:        a.StartTime,
		EndTime:          a.EndTime,
		Reason:           a.CancellationReason,
	}) {
		s.logger.Warn("notifyCancelled: notification for appointment id=%d was not queued", a.ID)
	}
}

func validateUpdate(req *models.UpdateRequest) (*domain.AppointmentStatus, error) {
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	if req.InternalNotes != nil && len(*req.InternalNotes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: internalNotes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellationReason must not exceed %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	if req.Status == nil {
		if req.Notes == nil && req.InternalNotes == nil {
			return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
		}
		return nil, nil
	}

	status, err := domain.ParseAppointmentStatus(*req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return &status, nil
}
