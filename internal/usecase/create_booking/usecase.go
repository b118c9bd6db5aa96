package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	clientRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/client"
	"github.com/m04kA/SMC-SalonBooking/internal/notify"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

const (
	metricsOperation = "create"

	// maxReferenceAttempts число попыток подобрать свободный номер бронирования
	maxReferenceAttempts = 3
)

// UseCase use case для создания бронирования
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	clientRepo      ClientRepository
	availability    AvailabilityChecker
	txManager       TransactionManager
	references      ReferenceGenerator
	notifier        Notifier
	metrics         Metrics
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// location задаёт часовой пояс салона, в котором определяется дата слота.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	clientRepo ClientRepository,
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
		clientRepo:      clientRepo,
		availability:    availability,
		txManager:       txManager,
		references:      domain.NewReferenceGenerator(),
		notifier:        notifier,
		metrics:         metrics,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования.
// Предварительная проверка слотов идёт вне транзакции; источником истины
// является повторная проверка пересечений в сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("CreateBooking: business=%d, location=%d, services=%d, group=%t",
		req.BusinessID, req.LocationID, len(req.Services), req.Group != nil)

	now := uc.timeProvider.Now()

	// 1. Валидация входных данных
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.metrics.IncBooking(metricsOperation, metrics.OutcomeRejected)
		return nil, err
	}

	// 2. Проверяем клиента и участников группы
	client, err := uc.checkClients(ctx, req)
	if err != nil {
		uc.countFailure(err)
		return nil, err
	}

	// 3. Загружаем услуги/сотрудников и делаем предварительную проверку слотов
	lines, err := uc.buildLines(ctx, req)
	if err != nil {
		uc.countFailure(err)
		return nil, err
	}

	if err := validateLinesDisjoint(lines); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		uc.metrics.IncBooking(metricsOperation, metrics.OutcomeRejected)
		return nil, err
	}

	appointment := uc.newAppointment(req, lines, now)
	appointment.Client = client

	// 4. Повторная проверка и запись в сериализуемой транзакции.
	// Совпадение номера бронирования повторяет транзакцию с новым номером
	for attempt := 1; ; attempt++ {
		err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			return uc.persist(txCtx, req, appointment, now)
		})
		if !errors.Is(err, errReferenceTaken) {
			break
		}
		uc.logger.Warn("CreateBooking: reference %s is already taken (attempt %d)", appointment.BookingReference, attempt)
		if attempt == maxReferenceAttempts {
			err = fmt.Errorf("%w: failed to allocate unique reference after %d attempts", ErrInternal, attempt)
			break
		}
	}
	if err != nil {
		uc.countFailure(err)
		if errors.Is(err, domain.ErrSlotConflict) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %w", ErrInternal, err)
	}

	uc.metrics.IncBooking(metricsOperation, metrics.OutcomeCreated)
	uc.logger.Info("CreateBooking: successfully created appointment id=%d reference=%s",
		appointment.ID, appointment.BookingReference)

	// 5. Уведомление после коммита, результат не влияет на бронирование
	if !uc.notifier.Enqueue(notify.Notification{
		Kind:             notify.KindBookingConfirmed,
		BusinessID:       appointment.BusinessID,
		AppointmentID:    appointment.ID,
		BookingReference: appointment.BookingReference,
		ClientID:         appointment.ClientID,
		StartTime:        appointment.StartTime,
		EndTime:          appointment.EndTime,
	}) {
		uc.logger.Warn("CreateBooking: confirmation for appointment id=%d was not queued", appointment.ID)
	}

	return appointment, nil
}

// persist блокирует сотрудников, перепроверяет пересечения и сохраняет бронирование
func (uc *UseCase) persist(txCtx context.Context, req *Request, appointment *domain.Appointment, now time.Time) error {
	// 4.1. Блокируем сотрудников в фиксированном порядке
	for _, staffID := range appointment.StaffIDs() {
		if err := uc.catalogRepo.LockStaff(txCtx, staffID); err != nil {
			uc.logger.Error("CreateBooking: failed to lock staff id=%d: %v", staffID, err)
			return fmt.Errorf("%w: failed to lock staff: %w", ErrInternal, err)
		}
	}

	// 4.2. Ищем пересечения с активными бронированиями
	for _, line := range appointment.Services {
		intervals, err := uc.appointmentRepo.ListActiveStaffIntervals(txCtx, line.StaffID, line.Range(), nil)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get intervals for staff id=%d: %v", line.StaffID, err)
			return fmt.Errorf("%w: failed to get staff intervals: %w", ErrInternal, err)
		}
		if conflict, found := domain.FindConflict(intervals, line.Range()); found {
			uc.logger.Warn("CreateBooking: staff id=%d is busy with appointment id=%d at %s",
				line.StaffID, conflict.AppointmentID, line.StartTime.Format(time.RFC3339))
			return &domain.ConflictError{ServiceName: line.ServiceName, StartTime: line.StartTime}
		}
	}

	// 4.3. Номер генерируется на каждую попытку транзакции
	reference, err := uc.references.Generate(now)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to generate reference: %v", err)
		return fmt.Errorf("%w: failed to generate reference: %w", ErrInternal, err)
	}
	appointment.BookingReference = reference

	// 4.4. Сохраняем бронирование
	if _, err := uc.appointmentRepo.Create(txCtx, appointment); err != nil {
		if constraint, ok := txmanager.UniqueViolationConstraint(err); ok {
			switch constraint {
			case appointmentRepo.ConstraintStaffStart:
				first := appointment.Services[0]
				uc.logger.Warn("CreateBooking: unique index rejected booking at %s", first.StartTime.Format(time.RFC3339))
				return &domain.ConflictError{ServiceName: first.ServiceName, StartTime: first.StartTime}
			case appointmentRepo.ConstraintBookingReference:
				return errReferenceTaken
			}
		}
		uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
		return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
	}

	// 4.5. Обновляем счетчик визитов клиента
	if req.ClientID != nil {
		if err := uc.clientRepo.RecordVisit(txCtx, *req.ClientID, now); err != nil {
			uc.logger.Error("CreateBooking: failed to record visit for client id=%d: %v", *req.ClientID, err)
			return fmt.Errorf("%w: failed to record visit: %w", ErrInternal, err)
		}
	}
	return nil
}

// checkClients проверяет клиента и участников группы, возвращает основного клиента
func (uc *UseCase) checkClients(ctx context.Context, req *Request) (*domain.Client, error) {
	ids := make([]int64, 0, 1)
	if req.ClientID != nil {
		ids = append(ids, *req.ClientID)
	}
	if req.Group != nil {
		ids = append(ids, req.Group.ClientIDs...)
	}

	var primary *domain.Client
	for _, id := range ids {
		client, err := uc.clientRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, clientRepo.ErrClientNotFound) {
				uc.logger.Warn("CreateBooking: client id=%d not found", id)
				return nil, ErrClientNotFound
			}
			uc.logger.Error("CreateBooking: failed to get client id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: failed to get client: %w", ErrInternal, err)
		}
		if client.BusinessID != req.BusinessID {
			uc.logger.Warn("CreateBooking: client id=%d belongs to another business", id)
			return nil, ErrClientNotFound
		}
		if primary == nil && req.ClientID != nil && id == *req.ClientID {
			primary = client
		}
	}
	return primary, nil
}

// buildLines загружает услуги и сотрудников и строит строки бронирования.
// Каждая строка проверяется по калькулятору слотов независимо.
func (uc *UseCase) buildLines(ctx context.Context, req *Request) ([]domain.AppointmentService, error) {
	seats := decimal.NewFromInt(int64(req.participants()))
	lines := make([]domain.AppointmentService, 0, len(req.Services))

	for _, line := range req.Services {
		service, err := uc.getService(ctx, req.BusinessID, line.ServiceID)
		if err != nil {
			return nil, err
		}
		staff, err := uc.getStaff(ctx, req.BusinessID, line.StaffID)
		if err != nil {
			return nil, err
		}

		start := line.StartTime.In(uc.location)
		date := domain.DateOnly(start)

		result, err := uc.availability.CalculateForStaff(ctx, service, staff, req.LocationID, date)
		if err != nil {
			uc.logger.Error("CreateBooking: availability check failed for staff id=%d: %v", staff.ID, err)
			return nil, fmt.Errorf("%w: availability check failed: %w", ErrInternal, err)
		}
		if !result.HasSlotAt(start) {
			uc.logger.Warn("CreateBooking: %s with staff id=%d at %s is not among free slots",
				service.Name, staff.ID, start.Format(time.RFC3339))
			return nil, &SlotUnavailableError{ServiceName: service.Name, StartTime: start}
		}

		lines = append(lines, domain.AppointmentService{
			ServiceID:       service.ID,
			StaffID:         staff.ID,
			ServiceName:     service.Name,
			StartTime:       start,
			EndTime:         start.Add(service.Duration()),
			DurationMinutes: service.DurationMinutes,
			Price:           service.Price.Mul(seats),
			TaxAmount:       service.TaxAmount().Mul(seats),
			Status:          domain.StatusPending,
		})
	}
	return lines, nil
}

func (uc *UseCase) getService(ctx context.Context, businessID, serviceID int64) (*domain.Service, error) {
	service, err := uc.catalogRepo.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}
	if !service.IsActive || service.BusinessID != businessID {
		uc.logger.Warn("CreateBooking: service id=%d is not bookable for business=%d", serviceID, businessID)
		return nil, ErrServiceNotFound
	}
	return service, nil
}

func (uc *UseCase) getStaff(ctx context.Context, businessID, staffID int64) (*domain.Staff, error) {
	staff, err := uc.catalogRepo.GetStaff(ctx, staffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			uc.logger.Warn("CreateBooking: staff id=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("CreateBooking: failed to get staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %w", ErrInternal, err)
	}
	if staff.BusinessID != businessID {
		uc.logger.Warn("CreateBooking: staff id=%d belongs to another business", staffID)
		return nil, ErrStaffNotFound
	}
	return staff, nil
}

func (uc *UseCase) newAppointment(req *Request, lines []domain.AppointmentService, now time.Time) *domain.Appointment {
	source := req.Source
	if source == "" {
		source = domain.SourceOnline
	}

	appointment := &domain.Appointment{
		BusinessID: req.BusinessID,
		LocationID: req.LocationID,
		ClientID:   req.ClientID,
		Status:     domain.StatusPending,
		Source:     source,
		Notes:      req.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
		Services:   lines,
	}
	appointment.RecalculateTotals()

	if req.Series != nil {
		seriesID := req.Series.ID
		rule := req.Series.Rule
		appointment.SeriesID = &seriesID
		appointment.ParentAppointmentID = req.Series.ParentAppointmentID
		appointment.RecurrenceRule = &rule
	}

	if req.Group != nil {
		maxParticipants := req.Group.MaxParticipants
		appointment.IsGroupBooking = true
		appointment.MaxParticipants = &maxParticipants
		for _, clientID := range req.Group.ClientIDs {
			appointment.Participants = append(appointment.Participants, domain.GroupParticipant{
				ClientID:  clientID,
				CreatedAt: now,
			})
		}
	}

	return appointment
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
