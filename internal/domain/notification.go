package domain

import "time"

// NotificationType тип уведомления для мастерской
type NotificationType string

const (
	NotificationQuoteAccepted    NotificationType = "quote_accepted"
	NotificationQuoteNotSelected NotificationType = "quote_not_selected"
	NotificationQuoteDeclined    NotificationType = "quote_declined"
)

// Notification запись уведомления
// Сохраняется один раз в момент перехода состояния, доставкой занимается внешний потребитель
type Notification struct {
	ID                  string           `json:"id"`
	WorkshopID          int64            `json:"workshopId"`
	Type                NotificationType `json:"type"`
	QuotationID         string           `json:"quotationId"`
	QuoteID             string           `json:"quoteId"`
	Title               string           `json:"title"`
	Message             string           `json:"message"`
	Amount              float64          `json:"amount"`
	WinningAmount       *float64         `json:"winningAmount,omitempty"`
	WinningWorkshopName *string          `json:"winningWorkshopName,omitempty"`
	PriceDifference     *float64         `json:"priceDifference,omitempty"`
	Currency            string           `json:"currency"`
	CarSummary          string           `json:"carSummary"`
	CreatedAt           time.Time        `json:"createdAt"`
}

// QuoteAcceptedEvent событие выбора победителя
type QuoteAcceptedEvent struct {
	QuotationID string
	CarSummary  string
	Winner      Quote
	Losers      []Quote
	OccurredAt  time.Time
}

// QuoteDeclinedEvent событие ручного отклонения предложения клиентом
type QuoteDeclinedEvent struct {
	QuotationID string
	CarSummary  string
	Quote       Quote
	OccurredAt  time.Time
}
