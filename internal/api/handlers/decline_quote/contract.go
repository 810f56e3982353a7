package decline_quote

import (
	"context"

	"github.com/m04kA/SMC-QuoteService/internal/service/quotations/models"
)

type QuotationService interface {
	DeclineQuote(ctx context.Context, quotationID, quoteID string, req *models.DeclineQuoteRequest) (*models.ResolutionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
