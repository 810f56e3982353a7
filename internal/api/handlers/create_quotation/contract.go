package create_quotation

import (
	"context"

	"github.com/m04kA/SMC-QuoteService/internal/service/quotations/models"
)

type QuotationService interface {
	Create(ctx context.Context, req *models.CreateQuotationRequest) (*models.QuotationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
