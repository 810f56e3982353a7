package notification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	"github.com/m04kA/SMC-QuoteService/pkg/dbmetrics"
	"github.com/m04kA/SMC-QuoteService/pkg/psqlbuilder"
)

const table = "notifications"

var columns = []string{
	"id",
	"workshop_id",
	"type",
	"quotation_id",
	"quote_id",
	"title",
	"message",
	"amount",
	"winning_amount",
	"winning_workshop_name",
	"price_difference",
	"currency",
	"car_summary",
	"created_at",
}

// Repository хранилище уведомлений (outbox)
// Уведомления пишутся в той же транзакции, что и переход состояния запроса,
// published_at проставляется после успешной отправки в брокер
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория уведомлений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateBatch сохраняет уведомления одним запросом
func (r *Repository) CreateBatch(ctx context.Context, notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert(table).Columns(columns...)
	for _, n := range notifications {
		insert = insert.Values(
			n.ID,
			n.WorkshopID,
			n.Type,
			n.QuotationID,
			n.QuoteID,
			n.Title,
			n.Message,
			n.Amount,
			n.WinningAmount,
			n.WinningWorkshopName,
			n.PriceDifference,
			n.Currency,
			n.CarSummary,
			n.CreatedAt,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateBatch - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// MarkPublished отмечает уведомления как отправленные
func (r *Repository) MarkPublished(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("published_at", at).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkPublished - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkPublished - execute update: %w", ErrExecQuery, err)
	}

	return nil
}

// ListByWorkshop последние уведомления мастерской, новые сначала
func (r *Repository) ListByWorkshop(ctx context.Context, workshopID int64, limit uint64) ([]domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"workshop_id": workshopID}).
		OrderBy("created_at DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByWorkshop - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, query, args)
}

// ListUnpublished уведомления, которые ещё не удалось отправить, старые сначала
func (r *Repository) ListUnpublished(ctx context.Context, limit uint64) ([]domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"published_at": nil}).
		OrderBy("created_at ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListUnpublished - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, query, args)
}

func (r *Repository) query(ctx context.Context, executor DBExecutor, query string, args []interface{}) ([]domain.Notification, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.Notification, 0)
	for rows.Next() {
		var (
			n             domain.Notification
			winningAmount sql.NullFloat64
			winningName   sql.NullString
			priceDiff     sql.NullFloat64
		)

		err := rows.Scan(
			&n.ID,
			&n.WorkshopID,
			&n.Type,
			&n.QuotationID,
			&n.QuoteID,
			&n.Title,
			&n.Message,
			&n.Amount,
			&winningAmount,
			&winningName,
			&priceDiff,
			&n.Currency,
			&n.CarSummary,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScanRow, err)
		}

		if winningAmount.Valid {
			n.WinningAmount = &winningAmount.Float64
		}
		if winningName.Valid {
			n.WinningWorkshopName = &winningName.String
		}
		if priceDiff.Valid {
			n.PriceDifference = &priceDiff.Float64
		}

		result = append(result, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows iteration: %v", ErrScanRow, err)
	}

	return result, nil
}
