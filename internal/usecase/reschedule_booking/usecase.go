package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/notify"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

const metricsOperation = "reschedule"

// UseCase use case для переноса бронирования
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	availability    AvailabilityChecker
	txManager       TransactionManager
	notifier        Notifier
	metrics         Metrics
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	availability AvailabilityChecker,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		availability:    availability,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute переносит бронирование: все строки сдвигаются на одну и ту же дельту,
// само бронирование исключается из поиска пересечений.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("RescheduleBooking: appointment=%d, business=%d, start=%s",
		req.AppointmentID, req.BusinessID, req.StartTime.Format(time.RFC3339))

	now := uc.timeProvider.Now()

	// 1. Валидация входных данных
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		uc.metrics.IncBooking(metricsOperation, metrics.OutcomeRejected)
		return nil, err
	}

	// 2. Загружаем бронирование для предварительной проверки
	current, err := uc.getAppointment(ctx, req)
	if err != nil {
		uc.countFailure(err)
		return nil, err
	}

	// 3. Предварительная проверка нового времени по калькулятору
	planned := uc.plan(current, req)
	if err := uc.checkSlots(ctx, req.BusinessID, planned); err != nil {
		uc.countFailure(err)
		return nil, err
	}

	previousStart, previousEnd := current.StartTime, current.EndTime
	var result *domain.Appointment

	// 4. Перенос в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Перечитываем бронирование под блокировкой
		locked, err := uc.getAppointment(txCtx, req)
		if err != nil {
			return err
		}
		moved := uc.plan(locked, req)

		// 4.2. Блокируем сотрудников
		for _, staffID := range moved.StaffIDs() {
			if err := uc.catalogRepo.LockStaff(txCtx, staffID); err != nil {
				uc.logger.Error("RescheduleBooking: failed to lock staff id=%d: %v", staffID, err)
				return fmt.Errorf("%w: failed to lock staff: %w", ErrInternal, err)
			}
		}

		// 4.3. Ищем пересечения, не считая само бронирование
		for _, line := range moved.Services {
			intervals, err := uc.appointmentRepo.ListActiveStaffIntervals(txCtx, line.StaffID, line.Range(), &moved.ID)
			if err != nil {
				uc.logger.Error("RescheduleBooking: failed to get intervals for staff id=%d: %v", line.StaffID, err)
				return fmt.Errorf("%w: failed to get staff intervals: %w", ErrInternal, err)
			}
			if conflict, found := domain.FindConflict(intervals, line.Range()); found {
				uc.logger.Warn("RescheduleBooking: staff id=%d is busy with appointment id=%d at %s",
					line.StaffID, conflict.AppointmentID, line.StartTime.Format(time.RFC3339))
				return &domain.ConflictError{ServiceName: line.ServiceName, StartTime: line.StartTime}
			}
		}

		// 4.4. Сохраняем новое время
		moved.UpdatedAt = now
		if err := uc.appointmentRepo.Reschedule(txCtx, moved); err != nil {
			if txmanager.IsUniqueViolation(err) {
				first := moved.Services[0]
				return &domain.ConflictError{ServiceName: first.ServiceName, StartTime: first.StartTime}
			}
			uc.logger.Error("RescheduleBooking: failed to reschedule appointment id=%d: %v", moved.ID, err)
			return fmt.Errorf("%w: failed to reschedule: %w", ErrInternal, err)
		}

		previousStart, previousEnd = locked.StartTime, locked.EndTime
		result = moved
		return nil
	})
	if err != nil {
		uc.countFailure(err)
		if errors.Is(err, domain.ErrSlotConflict) || errors.Is(err, ErrInternal) ||
			errors.Is(err, ErrAppointmentNotFound) || errors.Is(err, ErrNotReschedulable) {
			return nil, err
		}
		uc.logger.Error("RescheduleBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %w", ErrInternal, err)
	}

	uc.metrics.IncBooking(metricsOperation, metrics.OutcomeCreated)
	uc.logger.Info("RescheduleBooking: appointment id=%d moved from %s to %s",
		result.ID, previousStart.Format(time.RFC3339), result.StartTime.Format(time.RFC3339))

	// 5. Уведомление после коммита
	if !uc.notifier.Enqueue(notify.Notification{
		Kind:              notify.KindBookingRescheduled,
		BusinessID:        result.BusinessID,
		AppointmentID:     result.ID,
		BookingReference:  result.BookingReference,
		ClientID:          result.ClientID,
		StartTime:         result.StartTime,
		EndTime:           result.EndTime,
		PreviousStartTime: &previousStart,
		PreviousEndTime:   &previousEnd,
	}) {
		uc.logger.Warn("RescheduleBooking: notification for appointment id=%d was not queued", result.ID)
	}

	return result, nil
}

func (uc *UseCase) getAppointment(ctx context.Context, req *Request) (*domain.Appointment, error) {
	a, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RescheduleBooking: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
	}
	if a.BusinessID != req.BusinessID {
		uc.logger.Warn("RescheduleBooking: appointment id=%d belongs to another business", req.AppointmentID)
		return nil, ErrAppointmentNotFound
	}
	if !canReschedule(a.Status) {
		uc.logger.Warn("RescheduleBooking: appointment id=%d has status=%s", a.ID, a.Status)
		return nil, fmt.Errorf("%w: status %s", ErrNotReschedulable, a.Status)
	}
	return a, nil
}

// plan возвращает копию бронирования с новым временем (и сотрудником)
func (uc *UseCase) plan(a *domain.Appointment, req *Request) *domain.Appointment {
	moved := *a
	moved.Services = make([]domain.AppointmentService, len(a.Services))
	copy(moved.Services, a.Services)

	moved.Shift(req.StartTime.In(uc.location).Sub(a.StartTime))
	moved.StartTime = moved.StartTime.In(uc.location)
	moved.EndTime = moved.EndTime.In(uc.location)
	for i := range moved.Services {
		moved.Services[i].StartTime = moved.Services[i].StartTime.In(uc.location)
		moved.Services[i].EndTime = moved.Services[i].EndTime.In(uc.location)
		if req.StaffID != nil {
			moved.Services[i].StaffID = *req.StaffID
		}
	}
	return &moved
}

func (uc *UseCase) checkSlots(ctx context.Context, businessID int64, planned *domain.Appointment) error {
	for _, line := range planned.Services {
		service, err := uc.catalogRepo.GetService(ctx, line.ServiceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				uc.logger.Warn("RescheduleBooking: service id=%d not found", line.ServiceID)
				return ErrServiceNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to get service id=%d: %v", line.ServiceID, err)
			return fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
		}

		staff, err := uc.catalogRepo.GetStaff(ctx, line.StaffID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrStaffNotFound) {
				uc.logger.Warn("RescheduleBooking: staff id=%d not found", line.StaffID)
				return ErrStaffNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to get staff id=%d: %v", line.StaffID, err)
			return fmt.Errorf("%w: failed to get staff: %w", ErrInternal, err)
		}
		if staff.BusinessID != businessID {
			uc.logger.Warn("RescheduleBooking: staff id=%d belongs to another business", line.StaffID)
			return ErrStaffNotFound
		}

		result, err := uc.availability.CalculateExcluding(ctx, service, staff, planned.LocationID,
			domain.DateOnly(line.StartTime), planned.ID)
		if err != nil {
			uc.logger.Error("RescheduleBooking: availability check failed for staff id=%d: %v", staff.ID, err)
			return fmt.Errorf("%w: availability check failed: %w", ErrInternal, err)
		}
		if !result.HasSlotAt(line.StartTime) {
			uc.logger.Warn("RescheduleBooking: %s with staff id=%d at %s is not among free slots",
				line.ServiceName, staff.ID, line.StartTime.Format(time.RFC3339))
			return &SlotUnavailableError{ServiceName: line.ServiceName, StartTime: line.StartTime}
		}
	}
	return nil
}

func (uc *UseCase) countFailure(err error) {
	switch {
	case errors.Is(err, domain.ErrSlotConflict):
		uc.metrics.IncBooking(metricsOperation, metrics.OutcomeConflict)
	case errors.Is(err, ErrInternal):
		uc.metrics.IncBooking(metricsOperation, metrics.OutcomeError)
	default:
		uc.metrics.IncBooking(metricsOperation, metrics.OutcomeRejected)
	}
}
