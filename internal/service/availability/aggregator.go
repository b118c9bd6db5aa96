package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"golang.org/x/sync/errgroup"
)

const defaultParallelism = 4

// AggregateQuery запрос слотов по всем сотрудникам услуги на локации
type AggregateQuery struct {
	ServiceID  int64
	LocationID int64
	StaffID    *int64 // если задан, считается только этот сотрудник
	Date       time.Time
}

// Aggregate слоты по сотрудникам и сводный вид по времени начала
type Aggregate struct {
	Service  *domain.Service
	Staff    []domain.StaffAvailability
	AllSlots []domain.MergedSlot
}

// Aggregator запускает Calculator по каждому сотруднику и сводит результаты
type Aggregator struct {
	calculator  *Calculator
	catalog     CatalogRepository
	logger      Logger
	parallelism int
}

// NewAggregator создает агрегатор; parallelism <= 0 означает значение по умолчанию
func NewAggregator(calculator *Calculator, catalog CatalogRepository, logger Logger, parallelism int) *Aggregator {
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	return &Aggregator{
		calculator:  calculator,
		catalog:     catalog,
		logger:      logger,
		parallelism: parallelism,
	}
}

// Aggregate считает слоты по сотрудникам. Сотрудники без слотов
// остаются в ответе с пустым списком.
func (a *Aggregator) Aggregate(ctx context.Context, q AggregateQuery) (*Aggregate, error) {
	if q.StaffID != nil {
		result, err := a.calculator.Calculate(ctx, Query{
			ServiceID:  q.ServiceID,
			StaffID:    *q.StaffID,
			LocationID: q.LocationID,
			Date:       q.Date,
		})
		if err != nil {
			return nil, err
		}
		staff := []domain.StaffAvailability{result.Availability}
		return &Aggregate{Service: result.Service, Staff: staff, AllSlots: mergeSlots(staff)}, nil
	}

	service, err := a.calculator.getService(ctx, q.ServiceID)
	if err != nil {
		return nil, err
	}

	members, err := a.catalog.ListStaffForService(ctx, q.ServiceID, q.LocationID)
	if err != nil {
		a.logger.Error("Aggregate: failed to list staff for service id=%d: %v", q.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to list staff: %w", ErrInternal, err)
	}

	staff := make([]domain.StaffAvailability, len(members))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(a.parallelism)

	for i, member := range members {
		i, member := i, member
		group.Go(func() error {
			result, err := a.calculator.CalculateForStaff(groupCtx, service, member, q.LocationID, q.Date)
			if err != nil {
				return err
			}
			staff[i] = result.Availability
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	a.logger.Info("Aggregate: service=%d location=%d date=%s staff=%d",
		q.ServiceID, q.LocationID, q.Date.Format(domain.DateFormat), len(staff))

	return &Aggregate{Service: service, Staff: staff, AllSlots: mergeSlots(staff)}, nil
}

// mergeSlots группирует слоты по видимому началу в хронологическом порядке
func mergeSlots(staff []domain.StaffAvailability) []domain.MergedSlot {
	byStart := make(map[int64]*domain.MergedSlot)
	for _, s := range staff {
		for _, slot := range s.Slots {
			key := slot.StartTime.UnixNano()
			merged, ok := byStart[key]
			if !ok {
				merged = &domain.MergedSlot{StartTime: slot.StartTime, EndTime: slot.EndTime}
				byStart[key] = merged
			}
			merged.StaffIDs = append(merged.StaffIDs, s.StaffID)
		}
	}

	result := make([]domain.MergedSlot, 0, len(byStart))
	for _, merged := range byStart {
		result = append(result, *merged)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result
}
