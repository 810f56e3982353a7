package cancel_quotation

import "context"

type QuotationService interface {
	Cancel(ctx context.Context, quotationID string, customerID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
