package submit_quote

import (
	"context"

	"github.com/m04kA/SMC-QuoteService/internal/service/quotations/models"
)

type QuotationService interface {
	SubmitQuote(ctx context.Context, quotationID string, req *models.SubmitQuoteRequest) (*models.SubmitQuoteResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
