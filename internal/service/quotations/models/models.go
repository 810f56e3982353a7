package models

import (
	"time"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
)

// Request модели

// CreateQuotationRequest запрос клиента на расчёт стоимости
type CreateQuotationRequest struct {
	CustomerID        int64    `json:"-"`
	CarID             int64    `json:"carId"`
	Description       string   `json:"description"`
	ServiceTypes      []string `json:"serviceTypes"`
	TargetWorkshopIDs []int64  `json:"targetWorkshopIds"`
	ExpiresInDays     *int     `json:"expiresInDays,omitempty"` // по умолчанию из конфига
}

// SubmitQuoteRequest предложение мастерской
type SubmitQuoteRequest struct {
	WorkshopID               int64   `json:"workshopId"`
	UserID                   int64   `json:"-"` // сотрудник мастерской
	TotalAmount              float64 `json:"totalAmount"`
	Currency                 string  `json:"currency,omitempty"`
	EstimatedDurationMinutes int     `json:"estimatedDurationMinutes"`
	Notes                    *string `json:"notes,omitempty"`
}

// DeclineQuoteRequest отклонение предложения клиентом
type DeclineQuoteRequest struct {
	CustomerID int64  `json:"-"`
	Reason     string `json:"reason,omitempty"`
}

// Response модели

// QuoteResponse предложение мастерской
type QuoteResponse struct {
	ID                       string     `json:"id"`
	WorkshopID               int64      `json:"workshopId"`
	WorkshopName             string     `json:"workshopName"`
	TotalAmount              float64    `json:"totalAmount"`
	Currency                 string     `json:"currency"`
	EstimatedDurationMinutes int        `json:"estimatedDurationMinutes"`
	Notes                    *string    `json:"notes,omitempty"`
	Status                   string     `json:"status"`
	SubmittedAt              *time.Time `json:"submittedAt,omitempty"`
	AcceptedAt               *time.Time `json:"acceptedAt,omitempty"`
	DeclinedAt               *time.Time `json:"declinedAt,omitempty"`
	DeclineReason            *string    `json:"declineReason,omitempty"`
	UpdatedAt                time.Time  `json:"updatedAt"`
}

// QuotationResponse запрос со всеми предложениями
// Status учитывает ленивое истечение срока
type QuotationResponse struct {
	ID                string          `json:"id"`
	CustomerID        int64           `json:"customerId"`
	CarID             int64           `json:"carId"`
	CarSummary        string          `json:"carSummary"`
	Description       string          `json:"description"`
	ServiceTypes      []string        `json:"serviceTypes"`
	TargetWorkshopIDs []int64         `json:"targetWorkshopIds"`
	Quotes            []QuoteResponse `json:"quotes"`
	Status            string          `json:"status"`
	ViewedBy          []int64         `json:"viewedBy"`
	AcceptedQuoteID   *string         `json:"acceptedQuoteId,omitempty"`
	ExpiresAt         *time.Time      `json:"expiresAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// QuotationListResponse список запросов
type QuotationListResponse struct {
	Quotations []QuotationResponse `json:"quotations"`
	Total      int                 `json:"total"`
}

// SubmitQuoteResponse результат отправки предложения
type SubmitQuoteResponse struct {
	Quote   QuoteResponse `json:"quote"`
	Created bool          `json:"created"`
}

// ResolutionResponse результат выбора или отклонения предложения
type ResolutionResponse struct {
	Quotation         QuotationResponse `json:"quotation"`
	NotificationsSent int               `json:"notificationsSent"`
}

// NotificationResponse уведомление мастерской
type NotificationResponse struct {
	ID                  string    `json:"id"`
	Type                string    `json:"type"`
	QuotationID         string    `json:"quotationId"`
	QuoteID             string    `json:"quoteId"`
	Title               string    `json:"title"`
	Message             string    `json:"message"`
	Amount              float64   `json:"amount"`
	WinningAmount       *float64  `json:"winningAmount,omitempty"`
	WinningWorkshopName *string   `json:"winningWorkshopName,omitempty"`
	PriceDifference     *float64  `json:"priceDifference,omitempty"`
	Currency            string    `json:"currency"`
	CarSummary          string    `json:"carSummary"`
	CreatedAt           time.Time `json:"createdAt"`
}

// NotificationListResponse уведомления мастерской
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
}

// Конвертеры

// FromDomainQuote конвертирует предложение
func FromDomainQuote(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:                       q.ID,
		WorkshopID:               q.WorkshopID,
		WorkshopName:             q.WorkshopName,
		TotalAmount:              q.TotalAmount,
		Currency:                 q.Currency,
		EstimatedDurationMinutes: q.EstimatedDurationMinutes,
		Notes:                    q.Notes,
		Status:                   string(q.Status),
		SubmittedAt:              q.SubmittedAt,
		AcceptedAt:               q.AcceptedAt,
		DeclinedAt:               q.DeclinedAt,
		DeclineReason:            q.DeclineReason,
		UpdatedAt:                q.UpdatedAt,
	}
}

// FromDomainQuotation конвертирует запрос для клиента (видны все предложения)
func FromDomainQuotation(q *domain.Quotation, now time.Time) QuotationResponse {
	return fromDomain(q, now, func(domain.Quote) bool { return true })
}

// FromDomainQuotationForWorkshop мастерская видит только своё предложение
func FromDomainQuotationForWorkshop(q *domain.Quotation, workshopID int64, now time.Time) QuotationResponse {
	resp := fromDomain(q, now, func(quote domain.Quote) bool { return quote.WorkshopID == workshopID })
	resp.ViewedBy = []int64{}
	return resp
}

func fromDomain(q *domain.Quotation, now time.Time, visible func(domain.Quote) bool) QuotationResponse {
	quotes := make([]QuoteResponse, 0, len(q.Quotes))
	for _, quote := range q.Quotes {
		if visible(quote) {
			quotes = append(quotes, FromDomainQuote(quote))
		}
	}

	serviceTypes := q.ServiceTypes
	if serviceTypes == nil {
		serviceTypes = []string{}
	}
	viewedBy := q.ViewedBy
	if viewedBy == nil {
		viewedBy = []int64{}
	}

	return QuotationResponse{
		ID:                q.ID,
		CustomerID:        q.CustomerID,
		CarID:             q.CarID,
		CarSummary:        q.CarSummary,
		Description:       q.Description,
		ServiceTypes:      serviceTypes,
		TargetWorkshopIDs: q.TargetWorkshopIDs,
		Quotes:            quotes,
		Status:            string(q.EffectiveStatus(now)),
		ViewedBy:          viewedBy,
		AcceptedQuoteID:   q.AcceptedQuoteID,
		ExpiresAt:         q.ExpiresAt,
		CreatedAt:         q.CreatedAt,
		UpdatedAt:         q.UpdatedAt,
	}
}

// FromDomainQuotationList конвертирует список запросов клиента
func FromDomainQuotationList(list []*domain.Quotation, now time.Time) *QuotationListResponse {
	result := make([]QuotationResponse, 0, len(list))
	for _, q := range list {
		result = append(result, FromDomainQuotation(q, now))
	}
	return &QuotationListResponse{Quotations: result, Total: len(result)}
}

// FromDomainWorkshopQuotationList конвертирует список входящих запросов мастерской
func FromDomainWorkshopQuotationList(list []*domain.Quotation, workshopID int64, now time.Time) *QuotationListResponse {
	result := make([]QuotationResponse, 0, len(list))
	for _, q := range list {
		result = append(result, FromDomainQuotationForWorkshop(q, workshopID, now))
	}
	return &QuotationListResponse{Quotations: result, Total: len(result)}
}

// FromDomainNotifications конвертирует уведомления
func FromDomainNotifications(list []domain.Notification) *NotificationListResponse {
	result := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		result = append(result, NotificationResponse{
			ID:                  n.ID,
			Type:                string(n.Type),
			QuotationID:         n.QuotationID,
			QuoteID:             n.QuoteID,
			Title:               n.Title,
			Message:             n.Message,
			Amount:              n.Amount,
			WinningAmount:       n.WinningAmount,
			WinningWorkshopName: n.WinningWorkshopName,
			PriceDifference:     n.PriceDifference,
			Currency:            n.Currency,
			CarSummary:          n.CarSummary,
			CreatedAt:           n.CreatedAt,
		})
	}
	return &NotificationListResponse{Notifications: result, Total: len(result)}
}
