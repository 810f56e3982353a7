package get_notifications

import (
	"context"

	"github.com/m04kA/SMC-QuoteService/internal/service/quotations/models"
)

type QuotationService interface {
	ListNotifications(ctx context.Context, workshopID, userID int64, limit uint64) (*models.NotificationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
