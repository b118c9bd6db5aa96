package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

// Repository рабочие часы, перерывы и отгулы сотрудников
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListSchedules возвращает активные расписания сотрудника на локации для дня недели
// вместе с перерывами. Выбор действующей записи на дату делает domain.SelectSchedule.
func (r *Repository) ListSchedules(ctx context.Context, staffID, locationID int64, weekday time.Weekday) ([]domain.StaffSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"location_id",
		"day_of_week",
		"start_time",
		"end_time",
		"effective_from",
		"effective_until",
		"is_active",
	).
		From("staff_schedules").
		Where(squirrel.Eq{
			"staff_id":    staffID,
			"location_id": locationID,
			"day_of_week": int(weekday),
			"is_active":   true,
		}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListSchedules - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSchedules - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make([]domain.StaffSchedule, 0)
	for rows.Next() {
		var s domain.StaffSchedule
		if err := rows.Scan(
			&s.ID,
			&s.StaffID,
			&s.LocationID,
			&s.DayOfWeek,
			&s.StartTime,
			&s.EndTime,
			&s.EffectiveFrom,
			&s.EffectiveUntil,
			&s.IsActive,
		); err != nil {
			return nil, fmt.Errorf("%w: ListSchedules - scan row: %w", ErrScanRow, err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSchedules - rows error: %w", ErrScanRow, err)
	}

	if len(schedules) == 0 {
		return schedules, nil
	}
	if err := r.attachBreaks(ctx, executor, schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *Repository) attachBreaks(ctx context.Context, executor DBExecutor, schedules []domain.StaffSchedule) error {
	index := make(map[int64]int, len(schedules))
	ids := make([]int64, 0, len(schedules))
	for i, s := range schedules {
		index[s.ID] = i
		ids = append(ids, s.ID)
	}

	query, args, err := psqlbuilder.Select("id", "schedule_id", "start_time", "end_time").
		From("staff_breaks").
		Where(squirrel.Eq{"schedule_id": ids}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachBreaks - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachBreaks - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var b domain.Break
		if err := rows.Scan(&b.ID, &b.ScheduleID, &b.StartTime, &b.EndTime); err != nil {
			return fmt.Errorf("%w: attachBreaks - scan row: %w", ErrScanRow, err)
		}
		if i, ok := index[b.ScheduleID]; ok {
			schedules[i].Breaks = append(schedules[i].Breaks, b)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachBreaks - rows error: %w", ErrScanRow, err)
	}
	return nil
}

// ListApprovedTimeOff возвращает одобренные отгулы сотрудника, покрывающие дату
func (r *Repository) ListApprovedTimeOff(ctx context.Context, staffID int64, date time.Time) ([]domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	day := date.Format(domain.DateFormat)
	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"start_date",
		"end_date",
		"start_time",
		"end_time",
		"status",
		"reason",
	).
		From("time_off").
		Where(squirrel.Eq{"staff_id": staffID, "status": domain.TimeOffApproved}).
		Where(squirrel.LtOrEq{"start_date": day}).
		Where(squirrel.GtOrEq{"end_date": day}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListApprovedTimeOff - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListApprovedTimeOff - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	timeOff := make([]domain.TimeOff, 0)
	for rows.Next() {
		var t domain.TimeOff
		if err := rows.Scan(
			&t.ID,
			&t.StaffID,
			&t.StartDate,
			&t.EndDate,
			&t.StartTime,
			&t.EndTime,
			&t.Status,
			&t.Reason,
		); err != nil {
			return nil, fmt.Errorf("%w: ListApprovedTimeOff - scan row: %w", ErrScanRow, err)
		}
		timeOff = append(timeOff, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListApprovedTimeOff - rows error: %w", ErrScanRow, err)
	}

	return timeOff, nil
}
