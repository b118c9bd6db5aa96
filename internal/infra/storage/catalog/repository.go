package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

// Repository справочник услуг и сотрудников
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочника
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"name",
		"duration_minutes",
		"buffer_before_minutes",
		"buffer_after_minutes",
		"price",
		"tax_rate",
		"is_taxable",
		"is_active",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %w", ErrBuildQuery, err)
	}

	var s domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.BusinessID,
		&s.Name,
		&s.DurationMinutes,
		&s.BufferBeforeMinutes,
		&s.BufferAfterMinutes,
		&s.Price,
		&s.TaxRate,
		&s.IsTaxable,
		&s.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %w", ErrScanRow, err)
	}

	return &s, nil
}

// GetStaff получает сотрудника по ID
func (r *Repository) GetStaff(ctx context.Context, id int64) (*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(staffColumns("")...).
		From("staff").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - build select query: %w", ErrBuildQuery, err)
	}

	s, err := scanStaff(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - scan staff: %w", ErrScanRow, err)
	}

	return s, nil
}

// ListStaffForService возвращает активных сотрудников, оказывающих услугу
// и имеющих расписание на локации
func (r *Repository) ListStaffForService(ctx context.Context, serviceID, locationID int64) ([]*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(staffColumns("s.")...).
		From("staff s").
		Join("staff_services ss ON ss.staff_id = s.id").
		Where(squirrel.Eq{"ss.service_id": serviceID}).
		Where(squirrel.Eq{"s.is_active": true}).
		Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM staff_schedules sch WHERE sch.staff_id = s.id AND sch.location_id = ? AND sch.is_active)",
			locationID,
		)).
		OrderBy("s.name ASC", "s.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaffForService - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaffForService - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	staff := make([]*domain.Staff, 0)
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListStaffForService - scan row: %w", ErrScanRow, err)
		}
		staff = append(staff, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStaffForService - rows error: %w", ErrScanRow, err)
	}

	return staff, nil
}

// LockStaff блокирует строку сотрудника до конца транзакции.
// Сериализует создание бронирований к одному сотруднику.
func (r *Repository) LockStaff(ctx context.Context, staffID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("staff").
		Where(squirrel.Eq{"id": staffID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LockStaff - build select query: %w", ErrBuildQuery, err)
	}

	var id int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrStaffNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: LockStaff - execute query: %w", ErrExecQuery, err)
	}
	return nil
}

func staffColumns(prefix string) []string {
	columns := []string{"id", "business_id", "name", "booking_buffer_minutes", "can_accept_bookings", "is_active"}
	if prefix == "" {
		return columns
	}
	for i := range columns {
		columns[i] = prefix + columns[i]
	}
	return columns
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStaff(row rowScanner) (*domain.Staff, error) {
	var s domain.Staff
	if err := row.Scan(
		&s.ID,
		&s.BusinessID,
		&s.Name,
		&s.BookingBufferMinutes,
		&s.CanAcceptBookings,
		&s.IsActive,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
