package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
)

// UseCase use case для получения свободных слотов
type UseCase struct {
	aggregator   Aggregator
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(aggregator Aggregator, location *time.Location, logger Logger) *UseCase {
	return &UseCase{
		aggregator:   aggregator,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: business=%d, service=%d, location=%d, date=%s",
		req.BusinessID, req.ServiceID, req.LocationID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата интерпретируется в часовом поясе салона
	date := domain.OnSameDate(req.Date, uc.location)
	now := uc.timeProvider.Now().In(uc.location)
	if domain.IsDateInPast(date, now) {
		uc.logger.Warn("GetAvailability: date %s is in the past", date.Format(domain.DateFormat))
		return nil, ErrPastDate
	}

	// 3. Считаем слоты
	aggregate, err := uc.aggregator.Aggregate(ctx, availability.AggregateQuery{
		ServiceID:  req.ServiceID,
		LocationID: req.LocationID,
		StaffID:    req.StaffID,
		Date:       date,
	})
	if err != nil {
		if errors.Is(err, availability.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailability: failed to calculate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to calculate slots: %w", ErrInternal, err)
	}

	slots := 0
	for _, s := range aggregate.Staff {
		slots += len(s.Slots)
	}
	uc.logger.Info("GetAvailability: %d slots across %d staff", slots, len(aggregate.Staff))

	return &Response{
		Date:            date,
		ServiceID:       aggregate.Service.ID,
		DurationMinutes: aggregate.Service.DurationMinutes,
		Staff:           aggregate.Staff,
		AllSlots:        aggregate.AllSlots,
	}, nil
}
