package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	"github.com/m04kA/SMC-QuoteService/pkg/dbmetrics"
	"github.com/m04kA/SMC-QuoteService/pkg/psqlbuilder"
)

const table = "appointment_settings"

var columns = []string{
	"workshop_id",
	"enabled",
	"slot_settings",
	"booking_settings",
	"use_workshop_hours",
	"custom_availability",
	"exceptions",
	"enabled_services",
	"deposit",
	"created_at",
	"updated_at",
}

// Repository репозиторий настроек записи
// Одна строка на мастерскую, вложенные структуры хранятся в JSONB
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByWorkshopID получает настройки мастерской
func (r *Repository) GetByWorkshopID(ctx context.Context, workshopID int64) (*domain.AppointmentSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"workshop_id": workshopID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByWorkshopID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSettings(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("%w: GetByWorkshopID: %w", ErrScanRow, err)
	}

	return s, nil
}

// CreateIfNotExists создает настройки по умолчанию, если их ещё нет
// При гонке двух первых обращений побеждает первая вставка, вторая получает уже сохранённую строку
func (r *Repository) CreateIfNotExists(ctx context.Context, s *domain.AppointmentSettings) (*domain.AppointmentSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	values, err := encodeValues(s)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(columns[:len(columns)-2]...).
		Values(values...).
		Suffix("ON CONFLICT (workshop_id) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateIfNotExists - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: CreateIfNotExists - execute insert: %w", ErrExecQuery, err)
	}

	return r.GetByWorkshopID(ctx, s.WorkshopID)
}

// Update сохраняет настройки целиком
func (r *Repository) Update(ctx context.Context, s *domain.AppointmentSettings) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	values, err := encodeValues(s)
	if err != nil {
		return err
	}

	builder := psqlbuilder.Update(table)
	// workshop_id (первая колонка) не меняется
	for i, column := range columns[1 : len(columns)-2] {
		builder = builder.Set(column, values[i+1])
	}

	query, args, err := builder.
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"workshop_id": s.WorkshopID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
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
		return ErrSettingsNotFound
	}

	return nil
}

// encodeValues значения колонок в порядке columns без created_at/updated_at
func encodeValues(s *domain.AppointmentSettings) ([]interface{}, error) {
	slot, err := json.Marshal(s.Slot)
	if err != nil {
		return nil, fmt.Errorf("%w: slot settings: %v", ErrEncode, err)
	}
	booking, err := json.Marshal(s.Booking)
	if err != nil {
		return nil, fmt.Errorf("%w: booking settings: %v", ErrEncode, err)
	}
	custom, err := json.Marshal(s.CustomAvailability)
	if err != nil {
		return nil, fmt.Errorf("%w: custom availability: %v", ErrEncode, err)
	}
	exceptions := s.Exceptions
	if exceptions == nil {
		exceptions = []domain.AvailabilityException{}
	}
	exc, err := json.Marshal(exceptions)
	if err != nil {
		return nil, fmt.Errorf("%w: exceptions: %v", ErrEncode, err)
	}
	deposit, err := json.Marshal(s.Deposit)
	if err != nil {
		return nil, fmt.Errorf("%w: deposit: %v", ErrEncode, err)
	}

	services := s.EnabledServices
	if services == nil {
		services = []string{}
	}

	return []interface{}{
		s.WorkshopID,
		s.Enabled,
		slot,
		booking,
		s.UseWorkshopHours,
		custom,
		exc,
		pq.Array(services),
		deposit,
	}, nil
}

func scanSettings(row *sql.Row) (*domain.AppointmentSettings, error) {
	var s domain.AppointmentSettings
	var slot, booking, custom, exc, deposit []byte
	var services pq.StringArray
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.WorkshopID,
		&s.Enabled,
		&slot,
		&booking,
		&s.UseWorkshopHours,
		&custom,
		&exc,
		&services,
		&deposit,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	targets := []struct {
		data []byte
		dest interface{}
	}{
		{slot, &s.Slot},
		{booking, &s.Booking},
		{custom, &s.CustomAvailability},
		{exc, &s.Exceptions},
		{deposit, &s.Deposit},
	}
	for _, t := range targets {
		if len(t.data) == 0 {
			continue
		}
		if err := json.Unmarshal(t.data, t.dest); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncode, err)
		}
	}

	s.EnabledServices = []string(services)
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}
