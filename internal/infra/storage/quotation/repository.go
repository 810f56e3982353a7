package quotation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	"github.com/m04kA/SMC-QuoteService/pkg/dbmetrics"
	"github.com/m04kA/SMC-QuoteService/pkg/psqlbuilder"
)

const table = "quotations"

var columns = []string{
	"id",
	"customer_id",
	"car_id",
	"car_summary",
	"description",
	"service_types",
	"target_workshop_ids",
	"quotes",
	"status",
	"viewed_by",
	"accepted_quote_id",
	"expires_at",
	"created_at",
	"updated_at",
	"version",
}

// finalStatuses статусы, после которых запрос больше не меняется
var finalStatuses = []string{
	string(domain.QuotationAccepted),
	string(domain.QuotationCompleted),
}

// inactiveStatuses статусы, которые не показываются мастерским как активные
var inactiveStatuses = []string{
	string(domain.QuotationAccepted),
	string(domain.QuotationCompleted),
	string(domain.QuotationCancelled),
	string(domain.QuotationDeclined),
	string(domain.QuotationExpired),
}

// Repository репозиторий запросов клиентов
// Предложения мастерских хранятся внутри запроса в JSONB колонке quotes
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория запросов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый запрос с версией 1
func (r *Repository) Create(ctx context.Context, q *domain.Quotation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	quotes, err := encodeQuotes(q.Quotes)
	if err != nil {
		return err
	}

	q.Version = 1
	query, args, err := psqlbuilder.Insert(table).
		Columns(columns...).
		Values(
			q.ID,
			q.CustomerID,
			q.CarID,
			q.CarSummary,
			q.Description,
			pq.Array(q.ServiceTypes),
			pq.Array(q.TargetWorkshopIDs),
			quotes,
			q.Status,
			pq.Array(q.ViewedBy),
			q.AcceptedQuoteID,
			q.ExpiresAt,
			q.CreatedAt,
			q.UpdatedAt,
			q.Version,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает запрос по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Quotation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	q, err := scanQuotation(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("%w: GetByID: %w", ErrScanRow, err)
	}

	return q, nil
}

// Update условно сохраняет агрегат целиком (compare-and-swap по версии)
// Запись применяется, только если версия в БД совпадает с q.Version и запрос ещё не завершён.
// Иначе возвращается ErrConflict, повторять операцию должен вызывающий код
func (r *Repository) Update(ctx context.Context, q *domain.Quotation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	quotes, err := encodeQuotes(q.Quotes)
	if err != nil {
		return err
	}

	query, args, err := psqlbuilder.Update(table).
		Set("quotes", quotes).
		Set("status", q.Status).
		Set("viewed_by", pq.Array(q.ViewedBy)).
		Set("accepted_quote_id", q.AcceptedQuoteID).
		Set("updated_at", q.UpdatedAt).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": q.ID}).
		Where(squirrel.Eq{"version": q.Version}).
		Where(squirrel.NotEq{"status": finalStatuses}).
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
		return fmt.Errorf("%w: quotation id=%s version=%d", ErrConflict, q.ID, q.Version)
	}

	q.Version++
	return nil
}

// ListByCustomer запросы клиента, новые сначала
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Quotation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanQuotations(rows)
}

// ListActiveForWorkshop активные запросы, адресованные мастерской
// Истёкшие по expires_at запросы отфильтровываются в самом запросе (ленивое истечение)
func (r *Repository) ListActiveForWorkshop(ctx context.Context, workshopID int64, now time.Time) ([]*domain.Quotation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Expr("? = ANY(target_workshop_ids)", workshopID)).
		Where(squirrel.NotEq{"status": inactiveStatuses}).
		Where(squirrel.Or{
			squirrel.Eq{"expires_at": nil},
			squirrel.Gt{"expires_at": now},
		}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveForWorkshop - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveForWorkshop - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanQuotations(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQuotation(row rowScanner) (*domain.Quotation, error) {
	var (
		q               domain.Quotation
		serviceTypes    pq.StringArray
		targets         pq.Int64Array
		viewedBy        pq.Int64Array
		quotes          []byte
		acceptedQuoteID sql.NullString
		expiresAt       sql.NullTime
	)

	err := row.Scan(
		&q.ID,
		&q.CustomerID,
		&q.CarID,
		&q.CarSummary,
		&q.Description,
		&serviceTypes,
		&targets,
		&quotes,
		&q.Status,
		&viewedBy,
		&acceptedQuoteID,
		&expiresAt,
		&q.CreatedAt,
		&q.UpdatedAt,
		&q.Version,
	)
	if err != nil {
		return nil, err
	}

	q.ServiceTypes = []string(serviceTypes)
	q.TargetWorkshopIDs = []int64(targets)
	q.ViewedBy = []int64(viewedBy)
	if acceptedQuoteID.Valid {
		q.AcceptedQuoteID = &acceptedQuoteID.String
	}
	if expiresAt.Valid {
		q.ExpiresAt = &expiresAt.Time
	}

	q.Quotes, err = decodeQuotes(quotes)
	if err != nil {
		return nil, err
	}

	return &q, nil
}

func scanQuotations(rows *sql.Rows) ([]*domain.Quotation, error) {
	result := make([]*domain.Quotation, 0)
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanRow, err)
		}
		result = append(result, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows iteration: %w", ErrScanRow, err)
	}

	return result, nil
}

func encodeQuotes(quotes []domain.Quote) ([]byte, error) {
	if quotes == nil {
		quotes = []domain.Quote{}
	}
	data, err := json.Marshal(quotes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return data, nil
}

func decodeQuotes(data []byte) ([]domain.Quote, error) {
	quotes := make([]domain.Quote, 0)
	if len(data) == 0 {
		return quotes, nil
	}
	if err := json.Unmarshal(data, &quotes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return quotes, nil
}
