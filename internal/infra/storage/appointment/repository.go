package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	"github.com/m04kA/SMC-QuoteService/pkg/dbmetrics"
	"github.com/m04kA/SMC-QuoteService/pkg/psqlbuilder"
)

const table = "appointments"

var columns = []string{
	"id",
	"workshop_id",
	"customer_id",
	"quotation_id",
	"scheduled_date",
	"start_time",
	"duration_minutes",
	"status",
	"service_types",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей на обслуживание
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись
// Вызывается внутри сериализуемой транзакции вместе с повторной проверкой слота
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"workshop_id",
			"customer_id",
			"quotation_id",
			"scheduled_date",
			"start_time",
			"duration_minutes",
			"status",
			"service_types",
			"notes",
		).
		Values(
			a.WorkshopID,
			a.CustomerID,
			a.QuotationID,
			a.ScheduledDate,
			a.StartTime,
			a.DurationMinutes,
			a.Status,
			pq.Array(a.ServiceTypes),
			a.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments, err := scanAppointments(rows)
	if err != nil {
		return nil, err
	}
	if len(appointments) == 0 {
		return nil, ErrAppointmentNotFound
	}

	return appointments[0], nil
}

// GetByWorkshopWithFilter записи мастерской за период
// По умолчанию отменённые и неявки исключаются: они не занимают время
//
// Внутри транзакции запрос на одну дату выполняется с FOR UPDATE,
// чтобы параллельное создание записи на тот же день ждало текущую транзакцию
func (r *Repository) GetByWorkshopWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"workshop_id": filter.WorkshopID}).
		Where(squirrel.GtOrEq{"scheduled_date": filter.StartDate}).
		Where(squirrel.LtOrEq{"scheduled_date": filter.EndDate})

	if !filter.IncludeInactive {
		inactive := make([]string, len(domain.InactiveAppointmentStatuses))
		for i, s := range domain.InactiveAppointmentStatuses {
			inactive[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactive})
	}

	selectBuilder = selectBuilder.OrderBy("scheduled_date ASC", "start_time ASC")

	singleDay := filter.StartDate.Equal(filter.EndDate)
	if dbmetrics.IsInTransaction(ctx) && singleDay {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByWorkshopWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByWorkshopWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetByCustomer записи клиента, ближайшие сначала
func (r *Repository) GetByCustomer(ctx context.Context, customerID int64) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("scheduled_date DESC", "start_time DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// Cancel отменяет активную запись
// Условие на статус в самом UPDATE: уже отменённую запись повторно не трогаем
func (r *Repository) Cancel(ctx context.Context, id int64, reason string, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	inactive := make([]string, 0, len(domain.InactiveAppointmentStatuses)+1)
	for _, s := range domain.InactiveAppointmentStatuses {
		inactive = append(inactive, string(s))
	}
	inactive = append(inactive, string(domain.AppointmentCompleted))

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.AppointmentCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": inactive}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		var (
			a            domain.Appointment
			quotationID  sql.NullString
			notes        sql.NullString
			reason       sql.NullString
			cancelledAt  sql.NullTime
			serviceTypes pq.StringArray
			createdAt    sql.NullTime
			updatedAt    sql.NullTime
		)

		err := rows.Scan(
			&a.ID,
			&a.WorkshopID,
			&a.CustomerID,
			&quotationID,
			&a.ScheduledDate,
			&a.StartTime,
			&a.DurationMinutes,
			&a.Status,
			&serviceTypes,
			&notes,
			&reason,
			&cancelledAt,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}

		if quotationID.Valid {
			a.QuotationID = &quotationID.String
		}
		if notes.Valid {
			a.Notes = &notes.String
		}
		if reason.Valid {
			a.CancellationReason = &reason.String
		}
		if cancelledAt.Valid {
			a.CancelledAt = &cancelledAt.Time
		}
		a.ServiceTypes = []string(serviceTypes)
		a.CreatedAt = createdAt.Time
		a.UpdatedAt = updatedAt.Time

		appointments = append(appointments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
