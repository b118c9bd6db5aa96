package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
	"github.com/shopspring/decimal"
)

// Repository репозиторий клиентов салона
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает клиента по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"first_name",
		"last_name",
		"email",
		"phone",
		"visit_count",
		"last_visit_at",
		"lifetime_spend",
	).
		From("clients").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var c domain.Client
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.BusinessID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Phone,
		&c.VisitCount,
		&c.LastVisitAt,
		&c.LifetimeSpend,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan client: %w", ErrScanRow, err)
	}

	return &c, nil
}

// RecordVisit увеличивает счетчик визитов и обновляет время последнего визита
func (r *Repository) RecordVisit(ctx context.Context, id int64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("clients").
		Set("visit_count", squirrel.Expr("visit_count + 1")).
		Set("last_visit_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: RecordVisit - build update query: %w", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "RecordVisit", query, args)
}

// AddLifetimeSpend прибавляет сумму к накопленным тратам клиента
func (r *Repository) AddLifetimeSpend(ctx context.Context, id int64, amount decimal.Decimal) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("clients").
		Set("lifetime_spend", squirrel.Expr("lifetime_spend + ?", amount)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddLifetimeSpend - build update query: %w", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "AddLifetimeSpend", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrClientNotFound
	}
	return nil
}
