package appointment

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
)

var appointmentColumns = []string{
	"id",
	"business_id",
	"location_id",
	"client_id",
	"booking_reference",
	"start_time",
	"end_time",
	"status",
	"source",
	"subtotal",
	"tax_amount",
	"total",
	"notes",
	"internal_notes",
	"series_id",
	"parent_appointment_id",
	"recurrence_rule",
	"is_group_booking",
	"max_participants",
	"confirmation_sent_at",
	"checked_in_at",
	"completed_at",
	"cancelled_at",
	"no_show_at",
	"cancellation_reason",
	"cancelled_by",
	"created_at",
	"updated_at",
}

var serviceColumns = []string{
	"id",
	"appointment_id",
	"service_id",
	"staff_id",
	"service_name",
	"start_time",
	"end_time",
	"duration_minutes",
	"price",
	"tax_amount",
	"status",
}

// Repository репозиторий бронирований и их строк услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет бронирование вместе со строками услуг и участниками группы.
// Должен вызываться внутри транзакции: частичная запись без неё возможна.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"business_id",
			"location_id",
			"client_id",
			"booking_reference",
			"start_time",
			"end_time",
			"status",
			"source",
			"subtotal",
			"tax_amount",
			"total",
			"notes",
			"internal_notes",
			"series_id",
			"parent_appointment_id",
			"recurrence_rule",
			"is_group_booking",
			"max_participants",
		).
		Values(
			a.BusinessID,
			a.LocationID,
			a.ClientID,
			a.BookingReference,
			a.StartTime,
			a.EndTime,
			a.Status,
			a.Source,
			a.Subtotal,
			a.TaxAmount,
			a.Total,
			a.Notes,
			a.InternalNotes,
			a.SeriesID,
			a.ParentAppointmentID,
			a.RecurrenceRule,
			a.IsGroupBooking,
			a.MaxParticipants,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	for i := range a.Services {
		line := &a.Services[i]
		line.AppointmentID = a.ID
		if err := r.insertService(ctx, executor, line); err != nil {
			return nil, err
		}
	}

	for i := range a.Participants {
		a.Participants[i].AppointmentID = a.ID
		if err := r.insertParticipant(ctx, executor, &a.Participants[i]); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (r *Repository) insertService(ctx context.Context, executor DBExecutor, line *domain.AppointmentService) error {
	query, args, err := psqlbuilder.Insert("appointment_services").
		Columns(
			"appointment_id",
			"service_id",
			"staff_id",
			"service_name",
			"start_time",
			"end_time",
			"duration_minutes",
			"price",
			"tax_amount",
			"status",
		).
		Values(
			line.AppointmentID,
			line.ServiceID,
			line.StaffID,
			line.ServiceName,
			line.StartTime,
			line.EndTime,
			line.DurationMinutes,
			line.Price,
			line.TaxAmount,
			line.Status,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertService - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&line.ID); err != nil {
		return fmt.Errorf("%w: insertService - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}

// GetByID получает бронирование со строками услуг и участниками.
// Внутри транзакции строка бронирования блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByReference получает бронирование по публичному номеру
func (r *Repository) GetByReference(ctx context.Context, reference string) (*domain.Appointment, error) {
	return r.getOne(ctx, "GetByReference", squirrel.Eq{"booking_reference": reference})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(where)
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan appointment: %w", ErrScanRow, op, err)
	}

	if err := r.attachDetails(ctx, executor, []*domain.Appointment{a}); err != nil {
		return nil, err
	}
	return a, nil
}

// List получает бронирования бизнеса по фильтру, отсортированные по началу
func (r *Repository) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"business_id": filter.BusinessID}).
		OrderBy("start_time ASC", "id ASC")

	if filter.LocationID != nil {
		builder = builder.Where(squirrel.Eq{"location_id": *filter.LocationID})
	}
	if filter.ClientID != nil {
		builder = builder.Where(squirrel.Or{
			squirrel.Eq{"client_id": *filter.ClientID},
			squirrel.Expr("id IN (SELECT appointment_id FROM group_participants WHERE client_id = ?)", *filter.ClientID),
		})
	}
	if filter.StaffID != nil {
		builder = builder.Where(squirrel.Expr(
			"id IN (SELECT appointment_id FROM appointment_services WHERE staff_id = ?)", *filter.StaffID,
		))
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.DateFrom != nil {
		builder = builder.Where(squirrel.GtOrEq{"start_time": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		builder = builder.Where(squirrel.Lt{"start_time": *filter.DateTo})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	if err := r.attachDetails(ctx, executor, appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// ListActiveStaffIntervals возвращает занятые интервалы сотрудника, пересекающиеся с window.
// Учитываются только бронирования в статусах, занимающих время.
// Внутри транзакции найденные строки блокируются (FOR UPDATE).
func (r *Repository) ListActiveStaffIntervals(ctx context.Context, staffID int64, window domain.TimeRange, excludeAppointmentID *int64) ([]domain.StaffInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("aps.appointment_id", "aps.staff_id", "aps.start_time", "aps.end_time").
		From("appointment_services aps").
		Join("appointments a ON a.id = aps.appointment_id").
		Where(squirrel.Eq{"aps.staff_id": staffID}).
		Where(squirrel.NotEq{"a.status": domain.NonBlockingStatuses()}).
		Where(squirrel.Lt{"aps.start_time": window.End}).
		Where(squirrel.Gt{"aps.end_time": window.Start}).
		OrderBy("aps.start_time ASC")

	if excludeAppointmentID != nil {
		builder = builder.Where(squirrel.NotEq{"aps.appointment_id": *excludeAppointmentID})
	}
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE OF aps")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveStaffIntervals - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveStaffIntervals - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	intervals := make([]domain.StaffInterval, 0)
	for rows.Next() {
		var iv domain.StaffInterval
		if err := rows.Scan(&iv.AppointmentID, &iv.StaffID, &iv.Range.Start, &iv.Range.End); err != nil {
			return nil, fmt.Errorf("%w: ListActiveStaffIntervals - scan row: %w", ErrScanRow, err)
		}
		intervals = append(intervals, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveStaffIntervals - rows error: %w", ErrScanRow, err)
	}

	return intervals, nil
}

// Update сохраняет статус, временные метки и заметки бронирования.
// Статус строк услуг синхронизируется со статусом бронирования.
func (r *Repository) Update(ctx context.Context, a *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", a.Status).
		Set("notes", a.Notes).
		Set("internal_notes", a.InternalNotes).
		Set("confirmation_sent_at", a.ConfirmationSentAt).
		Set("checked_in_at", a.CheckedInAt).
		Set("completed_at", a.CompletedAt).
		Set("cancelled_at", a.CancelledAt).
		Set("no_show_at", a.NoShowAt).
		Set("cancellation_reason", a.CancellationReason).
		Set("cancelled_by", a.CancelledBy).
		Set("updated_at", a.UpdatedAt).
		Where(squirrel.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return r.updateServiceStatuses(ctx, executor, []int64{a.ID}, a.Status)
}

func (r *Repository) updateServiceStatuses(ctx context.Context, executor DBExecutor, appointmentIDs []int64, status domain.AppointmentStatus) error {
	if len(appointmentIDs) == 0 {
		return nil
	}

	query, args, err := psqlbuilder.Update("appointment_services").
		Set("status", status).
		Where(squirrel.Eq{"appointment_id": appointmentIDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: updateServiceStatuses - build update query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: updateServiceStatuses - execute update: %w", ErrExecQuery, err)
	}
	return nil
}

// Reschedule сохраняет новое время бронирования и его строк услуг
func (r *Repository) Reschedule(ctx context.Context, a *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("start_time", a.StartTime).
		Set("end_time", a.EndTime).
		Set("updated_at", a.UpdatedAt).
		Where(squirrel.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Reschedule - execute update: %w", ErrExecQuery, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Reschedule - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	for _, line := range a.Services {
		query, args, err := psqlbuilder.Update("appointment_services").
			Set("staff_id", line.StaffID).
			Set("start_time", line.StartTime).
			Set("end_time", line.EndTime).
			Where(squirrel.Eq{"id": line.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: Reschedule - build service update query: %w", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: Reschedule - execute service update: %w", ErrExecQuery, err)
		}
	}

	return nil
}

// CancelSeries отменяет все вхождения серии начиная с from (если задан).
// Завершённые, отменённые и неявки не затрагиваются. Возвращает ID отменённых бронирований.
func (r *Repository) CancelSeries(ctx context.Context, businessID int64, seriesID string, from *time.Time, reason string, now time.Time) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancelled_at", now).
		Set("cancellation_reason", reason).
		Set("updated_at", now).
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"series_id": seriesID}).
		Where(squirrel.NotEq{"status": []string{
			string(domain.StatusCompleted),
			string(domain.StatusCancelled),
			string(domain.StatusNoShow),
		}}).
		Suffix("RETURNING id")

	if from != nil {
		builder = builder.Where(squirrel.GtOrEq{"start_time": *from})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CancelSeries - build update query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CancelSeries - execute update: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: CancelSeries - scan id: %w", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CancelSeries - rows error: %w", ErrScanRow, err)
	}

	if err := r.updateServiceStatuses(ctx, executor, ids, domain.StatusCancelled); err != nil {
		return nil, err
	}
	return ids, nil
}

// attachDetails подгружает строки услуг и участников одним запросом на таблицу
func (r *Repository) attachDetails(ctx context.Context, executor DBExecutor, appointments []*domain.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Appointment, len(appointments))
	ids := make([]int64, 0, len(appointments))
	for _, a := range appointments {
		byID[a.ID] = a
		ids = append(ids, a.ID)
	}

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("appointment_services").
		Where(squirrel.Eq{"appointment_id": ids}).
		OrderBy("start_time ASC", "id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachDetails - build services query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachDetails - execute services query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.AppointmentService
		if err := rows.Scan(
			&line.ID,
			&line.AppointmentID,
			&line.ServiceID,
			&line.StaffID,
			&line.ServiceName,
			&line.StartTime,
			&line.EndTime,
			&line.DurationMinutes,
			&line.Price,
			&line.TaxAmount,
			&line.Status,
		); err != nil {
			return fmt.Errorf("%w: attachDetails - scan service: %w", ErrScanRow, err)
		}
		if a, ok := byID[line.AppointmentID]; ok {
			a.Services = append(a.Services, line)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachDetails - services rows error: %w", ErrScanRow, err)
	}

	participants, err := r.listParticipants(ctx, executor, ids)
	if err != nil {
		return err
	}
	for _, p := range participants {
		if a, ok := byID[p.AppointmentID]; ok {
			a.Participants = append(a.Participants, p)
		}
	}

	return nil
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.BusinessID,
		&a.LocationID,
		&a.ClientID,
		&a.BookingReference,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&a.Source,
		&a.Subtotal,
		&a.TaxAmount,
		&a.Total,
		&a.Notes,
		&a.InternalNotes,
		&a.SeriesID,
		&a.ParentAppointmentID,
		&a.RecurrenceRule,
		&a.IsGroupBooking,
		&a.MaxParticipants,
		&a.ConfirmationSentAt,
		&a.CheckedInAt,
		&a.CompletedAt,
		&a.CancelledAt,
		&a.NoShowAt,
		&a.CancellationReason,
		&a.CancelledBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return &a, nil
}
