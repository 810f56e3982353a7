package create_appointment

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.WorkshopID <= 0 {
		return fmt.Errorf("%w: workshopID must be positive", ErrInvalidInput)
	}

	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.DurationHours != nil {
		minutes := *req.DurationHours * 60
		if minutes < domain.MinDurationMinutes || minutes > domain.MaxDurationMinutes {
			return fmt.Errorf("%w: duration must be between 0.5 and 24 hours", ErrInvalidInput)
		}
	}

	if req.QuotationID != nil && strings.TrimSpace(*req.QuotationID) == "" {
		return fmt.Errorf("%w: quotationID must not be empty", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateQuotation запрос принадлежит клиенту и в нём принято предложение этой мастерской
func validateQuotation(q *domain.Quotation, customerID, workshopID int64) (*domain.Quote, error) {
	if q.CustomerID != customerID {
		return nil, ErrAccessDenied
	}

	if q.Status != domain.QuotationAccepted || q.AcceptedQuoteID == nil {
		return nil, fmt.Errorf("%w: quotation status is %s", ErrQuotationMismatch, q.Status)
	}

	quote, ok := q.QuoteByID(*q.AcceptedQuoteID)
	if !ok || quote.WorkshopID != workshopID {
		return nil, ErrQuotationMismatch
	}

	return quote, nil
}
