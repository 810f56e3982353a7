package domain

import "errors"

// Ошибки агрегата Quotation
// Сервисный слой сопоставляет их с таксономией ошибок (NotFound, Forbidden, Conflict, InvalidState, Validation)
var (
	ErrQuoteNotFound         = errors.New("quote not found")
	ErrNotQuotationOwner     = errors.New("caller is not the quotation owner")
	ErrWorkshopNotTargeted   = errors.New("workshop is not targeted by the quotation")
	ErrQuotationFinalized    = errors.New("quotation is already finalized")
	ErrQuotationExpired      = errors.New("quotation has expired")
	ErrQuotationCancelled    = errors.New("quotation is cancelled")
	ErrInvalidQuoteState     = errors.New("quote is not in a valid state for this operation")
	ErrInvalidQuotationState = errors.New("quotation is not in a valid state for this operation")
	ErrInvalidQuote          = errors.New("invalid quote data")
	ErrInvalidQuotation      = errors.New("invalid quotation data")
)
