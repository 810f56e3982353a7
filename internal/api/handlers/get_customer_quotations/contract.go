package get_customer_quotations

import (
	"context"

	"github.com/m04kA/SMC-QuoteService/internal/service/quotations/models"
)

type QuotationService interface {
	ListByCustomer(ctx context.Context, customerID int64) (*models.QuotationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
