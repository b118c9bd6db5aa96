package appointment

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

// CountParticipants возвращает текущее количество участников группы
func (r *Repository) CountParticipants(ctx context.Context, appointmentID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("group_participants").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountParticipants - build select query: %w", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountParticipants - scan count: %w", ErrScanRow, err)
	}
	return count, nil
}

// AddParticipant добавляет клиента в групповое бронирование
func (r *Repository) AddParticipant(ctx context.Context, p *domain.GroupParticipant) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	return r.insertParticipant(ctx, executor, p)
}

func (r *Repository) insertParticipant(ctx context.Context, executor DBExecutor, p *domain.GroupParticipant) error {
	query, args, err := psqlbuilder.Insert("group_participants").
		Columns("appointment_id", "client_id").
		Values(p.AppointmentID, p.ClientID).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertParticipant - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&p.CreatedAt); err != nil {
		if txmanager.IsUniqueViolation(err) {
			return fmt.Errorf("%w: client %d", ErrParticipantExists, p.ClientID)
		}
		return fmt.Errorf("%w: insertParticipant - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}

// RemoveParticipant удаляет пару (бронирование, клиент). Отсутствие пары не ошибка.
func (r *Repository) RemoveParticipant(ctx context.Context, appointmentID, clientID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("group_participants").
		Where(squirrel.Eq{"appointment_id": appointmentID, "client_id": clientID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: RemoveParticipant - build delete query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: RemoveParticipant - execute delete: %w", ErrExecQuery, err)
	}
	return nil
}

// ListParticipants возвращает участников группового бронирования
func (r *Repository) ListParticipants(ctx context.Context, appointmentID int64) ([]domain.GroupParticipant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	return r.listParticipants(ctx, executor, []int64{appointmentID})
}

func (r *Repository) listParticipants(ctx context.Context, executor DBExecutor, appointmentIDs []int64) ([]domain.GroupParticipant, error) {
	query, args, err := psqlbuilder.Select("appointment_id", "client_id", "created_at").
		From("group_participants").
		Where(squirrel.Eq{"appointment_id": appointmentIDs}).
		OrderBy("created_at ASC", "client_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listParticipants - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listParticipants - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	participants := make([]domain.GroupParticipant, 0)
	for rows.Next() {
		var p domain.GroupParticipant
		if err := rows.Scan(&p.AppointmentID, &p.ClientID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: listParticipants - scan row: %w", ErrScanRow, err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listParticipants - rows error: %w", ErrScanRow, err)
	}

	return participants, nil
}
