package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// QuotationStatus статус запроса на расчёт стоимости
type QuotationStatus string

const (
	QuotationPending   QuotationStatus = "pending"
	QuotationOpen      QuotationStatus = "open"
	QuotationViewed    QuotationStatus = "viewed"
	QuotationQuoted    QuotationStatus = "quoted"
	QuotationAccepted  QuotationStatus = "accepted"
	QuotationDeclined  QuotationStatus = "declined"
	QuotationExpired   QuotationStatus = "expired"
	QuotationCompleted QuotationStatus = "completed"
	QuotationCancelled QuotationStatus = "cancelled"
)

// FinalizedQuotationStatuses статусы, после которых победитель уже определён
var FinalizedQuotationStatuses = []QuotationStatus{QuotationAccepted, QuotationCompleted}

// QuoteStatus статус предложения мастерской
type QuoteStatus string

const (
	QuotePending   QuoteStatus = "pending"
	QuoteSubmitted QuoteStatus = "submitted"
	QuoteAccepted  QuoteStatus = "accepted"
	QuoteDeclined  QuoteStatus = "declined"
)

// Quote предложение одной мастерской внутри Quotation
type Quote struct {
	ID                       string      `json:"id"`
	WorkshopID               int64       `json:"workshopId"`
	WorkshopName             string      `json:"workshopName"`
	TotalAmount              float64     `json:"totalAmount"`
	Currency                 string      `json:"currency"`
	EstimatedDurationMinutes int         `json:"estimatedDurationMinutes"`
	Notes                    *string     `json:"notes,omitempty"`
	Status                   QuoteStatus `json:"status"`
	SubmittedAt              *time.Time  `json:"submittedAt,omitempty"`
	UpdatedAt                time.Time   `json:"updatedAt"`
	AcceptedAt               *time.Time  `json:"acceptedAt,omitempty"`
	DeclinedAt               *time.Time  `json:"declinedAt,omitempty"`
	DeclineReason            *string     `json:"declineReason,omitempty"`
}

// IsTerminal accepted и declined - терминальные статусы
func (q *Quote) IsTerminal() bool {
	return q.Status == QuoteAccepted || q.Status == QuoteDeclined
}

// QuoteBid данные предложения от мастерской
type QuoteBid struct {
	WorkshopID               int64
	WorkshopName             string
	TotalAmount              float64
	Currency                 string
	EstimatedDurationMinutes int
	Notes                    *string
}

// Quotation агрегат: запрос клиента, разосланный нескольким мастерским
// Предложения меняются только через методы агрегата
type Quotation struct {
	ID                string
	CustomerID        int64
	CarID             int64
	CarSummary        string
	Description       string
	ServiceTypes      []string
	TargetWorkshopIDs []int64
	Quotes            []Quote
	Status            QuotationStatus
	ViewedBy          []int64
	AcceptedQuoteID   *string
	ExpiresAt         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Version           int64
}

// NewQuotation создает запрос в статусе pending
func NewQuotation(
	customerID, carID int64,
	carSummary, description string,
	serviceTypes []string,
	targets []int64,
	now time.Time,
	expiresAt *time.Time,
) (*Quotation, error) {
	if customerID <= 0 || carID <= 0 {
		return nil, fmt.Errorf("%w: customerID and carID must be positive", ErrInvalidQuotation)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: at least one target workshop is required", ErrInvalidQuotation)
	}
	if len(targets) > MaxTargetWorkshops {
		return nil, fmt.Errorf("%w: at most %d target workshops allowed", ErrInvalidQuotation, MaxTargetWorkshops)
	}

	seen := make(map[int64]struct{}, len(targets))
	for _, id := range targets {
		if id <= 0 {
			return nil, fmt.Errorf("%w: workshop id must be positive", ErrInvalidQuotation)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate target workshop %d", ErrInvalidQuotation, id)
		}
		seen[id] = struct{}{}
	}

	if expiresAt != nil && !expiresAt.After(now) {
		return nil, fmt.Errorf("%w: expiresAt must be in the future", ErrInvalidQuotation)
	}

	return &Quotation{
		ID:                uuid.NewString(),
		CustomerID:        customerID,
		CarID:             carID,
		CarSummary:        strings.TrimSpace(carSummary),
		Description:       strings.TrimSpace(description),
		ServiceTypes:      serviceTypes,
		TargetWorkshopIDs: targets,
		Quotes:            []Quote{},
		Status:            QuotationPending,
		ViewedBy:          []int64{},
		ExpiresAt:         expiresAt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// IsTargeted проверяет, что мастерская получила этот запрос
func (q *Quotation) IsTargeted(workshopID int64) bool {
	for _, id := range q.TargetWorkshopIDs {
		if id == workshopID {
			return true
		}
	}
	return false
}

// IsFinalized победитель уже выбран (accepted или completed)
func (q *Quotation) IsFinalized() bool {
	for _, s := range FinalizedQuotationStatuses {
		if q.Status == s {
			return true
		}
	}
	return false
}

// IsExpired срок истёк, а запрос ещё не завершён
// Истечение проверяется лениво при чтении, фонового перевода в expired нет
func (q *Quotation) IsExpired(now time.Time) bool {
	if q.Status == QuotationExpired {
		return true
	}
	if q.ExpiresAt == nil || q.IsFinalized() || q.Status == QuotationDeclined || q.Status == QuotationCancelled {
		return false
	}
	return !now.Before(*q.ExpiresAt)
}

// EffectiveStatus статус с учётом ленивого истечения
func (q *Quotation) EffectiveStatus(now time.Time) QuotationStatus {
	if q.IsExpired(now) {
		return QuotationExpired
	}
	return q.Status
}

// QuoteByID ищет предложение по ID
func (q *Quotation) QuoteByID(id string) (*Quote, bool) {
	for i := range q.Quotes {
		if q.Quotes[i].ID == id {
			return &q.Quotes[i], true
		}
	}
	return nil, false
}

// QuoteByWorkshop ищет предложение мастерской
func (q *Quotation) QuoteByWorkshop(workshopID int64) (*Quote, bool) {
	for i := range q.Quotes {
		if q.Quotes[i].WorkshopID == workshopID {
			return &q.Quotes[i], true
		}
	}
	return nil, false
}

// AcceptedCount количество принятых предложений (инвариант: не больше одного)
func (q *Quotation) AcceptedCount() int {
	count := 0
	for _, quote := range q.Quotes {
		if quote.Status == QuoteAccepted {
			count++
		}
	}
	return count
}

// MarkViewed фиксирует просмотр запроса мастерской
// Возвращает true, если агрегат изменился
func (q *Quotation) MarkViewed(workshopID int64, now time.Time) (bool, error) {
	if !q.IsTargeted(workshopID) {
		return false, ErrWorkshopNotTargeted
	}

	changed := false
	viewed := false
	for _, id := range q.ViewedBy {
		if id == workshopID {
			viewed = true
			break
		}
	}
	if !viewed {
		q.ViewedBy = append(q.ViewedBy, workshopID)
		changed = true
	}

	if !q.IsExpired(now) && (q.Status == QuotationPending || q.Status == QuotationOpen) {
		q.Status = QuotationViewed
		changed = true
	}

	if changed {
		q.UpdatedAt = now
	}
	return changed, nil
}

// SubmitQuote создает или обновляет предложение мастерской (идемпотентно по мастерской)
// Возвращает копию предложения и признак создания нового
func (q *Quotation) SubmitQuote(bid QuoteBid, now time.Time) (Quote, bool, error) {
	if bid.TotalAmount <= 0 {
		return Quote{}, false, fmt.Errorf("%w: totalAmount must be positive", ErrInvalidQuote)
	}
	if bid.EstimatedDurationMinutes <= 0 || bid.EstimatedDurationMinutes > MaxDurationMinutes {
		return Quote{}, false, fmt.Errorf("%w: estimatedDuration must be between 1 and %d minutes", ErrInvalidQuote, MaxDurationMinutes)
	}
	if !q.IsTargeted(bid.WorkshopID) {
		return Quote{}, false, ErrWorkshopNotTargeted
	}
	if q.IsFinalized() {
		return Quote{}, false, ErrQuotationFinalized
	}
	if q.Status == QuotationCancelled {
		return Quote{}, false, ErrQuotationCancelled
	}
	if q.IsExpired(now) {
		return Quote{}, false, ErrQuotationExpired
	}

	currency := bid.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	created := false
	existing, ok := q.QuoteByWorkshop(bid.WorkshopID)
	if ok {
		if existing.IsTerminal() {
			return Quote{}, false, fmt.Errorf("%w: quote is %s", ErrInvalidQuoteState, existing.Status)
		}
		existing.TotalAmount = bid.TotalAmount
		existing.Currency = currency
		existing.EstimatedDurationMinutes = bid.EstimatedDurationMinutes
		existing.Notes = bid.Notes
		if bid.WorkshopName != "" {
			existing.WorkshopName = bid.WorkshopName
		}
		if existing.Status == QuotePending {
			existing.SubmittedAt = &now
		}
		existing.Status = QuoteSubmitted
		existing.UpdatedAt = now
	} else {
		q.Quotes = append(q.Quotes, Quote{
			ID:                       uuid.NewString(),
			WorkshopID:               bid.WorkshopID,
			WorkshopName:             bid.WorkshopName,
			TotalAmount:              bid.TotalAmount,
			Currency:                 currency,
			EstimatedDurationMinutes: bid.EstimatedDurationMinutes,
			Notes:                    bid.Notes,
			Status:                   QuoteSubmitted,
			SubmittedAt:              &now,
			UpdatedAt:                now,
		})
		existing = &q.Quotes[len(q.Quotes)-1]
		created = true
	}

	switch q.Status {
	case QuotationPending, QuotationOpen, QuotationViewed, QuotationDeclined:
		q.Status = QuotationQuoted
	}
	q.UpdatedAt = now

	return *existing, created, nil
}

// AcceptOutcome результат выбора победителя
type AcceptOutcome struct {
	Winner Quote
	Losers []Quote // предложения, отклонённые в результате выбора
}

// AcceptQuote выбирает победителя: целевое предложение -> accepted,
// все остальные submitted -> declined, запрос -> accepted
// Изменения применяются только к агрегату в памяти; атомарность записи обеспечивает репозиторий (CAS по version)
func (q *Quotation) AcceptQuote(quoteID string, callerID int64, now time.Time) (*AcceptOutcome, error) {
	if q.CustomerID != callerID {
		return nil, ErrNotQuotationOwner
	}
	if q.IsFinalized() {
		return nil, ErrQuotationFinalized
	}
	if q.Status == QuotationCancelled {
		return nil, ErrQuotationCancelled
	}
	if q.IsExpired(now) {
		return nil, ErrQuotationExpired
	}

	target, ok := q.QuoteByID(quoteID)
	if !ok {
		return nil, ErrQuoteNotFound
	}
	if target.Status != QuoteSubmitted {
		return nil, fmt.Errorf("%w: quote is %s", ErrInvalidQuoteState, target.Status)
	}

	target.Status = QuoteAccepted
	target.AcceptedAt = &now
	target.UpdatedAt = now
	winner := *target

	losers := make([]Quote, 0, len(q.Quotes)-1)
	for i := range q.Quotes {
		other := &q.Quotes[i]
		if other.ID == quoteID || other.Status != QuoteSubmitted {
			continue
		}
		reason := ReasonAnotherQuoteAccepted
		other.Status = QuoteDeclined
		other.DeclinedAt = &now
		other.DeclineReason = &reason
		other.UpdatedAt = now
		losers = append(losers, *other)
	}

	q.Status = QuotationAccepted
	q.AcceptedQuoteID = &winner.ID
	q.UpdatedAt = now

	return &AcceptOutcome{Winner: winner, Losers: losers}, nil
}

// DeclineQuote отклоняет одно предложение по инициативе клиента
// Если после этого все предложения отклонены, запрос переходит в declined
func (q *Quotation) DeclineQuote(quoteID string, callerID int64, reason string, now time.Time) (Quote, error) {
	if q.CustomerID != callerID {
		return Quote{}, ErrNotQuotationOwner
	}
	if q.IsFinalized() {
		return Quote{}, ErrQuotationFinalized
	}
	if q.Status == QuotationCancelled {
		return Quote{}, ErrQuotationCancelled
	}
	if q.IsExpired(now) {
		return Quote{}, ErrQuotationExpired
	}

	target, ok := q.QuoteByID(quoteID)
	if !ok {
		return Quote{}, ErrQuoteNotFound
	}
	if target.Status != QuoteSubmitted && target.Status != QuotePending {
		return Quote{}, fmt.Errorf("%w: quote is %s", ErrInvalidQuoteState, target.Status)
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = ReasonDeclinedByCustomer
	}
	if len(reason) > MaxDeclineReasonLength {
		return Quote{}, fmt.Errorf("%w: decline reason is too long", ErrInvalidQuote)
	}

	target.Status = QuoteDeclined
	target.DeclinedAt = &now
	target.DeclineReason = &reason
	target.UpdatedAt = now
	declined := *target

	if q.allDeclined() {
		q.Status = QuotationDeclined
	}
	q.UpdatedAt = now

	return declined, nil
}

// Cancel отмена запроса клиентом до выбора победителя
func (q *Quotation) Cancel(callerID int64, now time.Time) error {
	if q.CustomerID != callerID {
		return ErrNotQuotationOwner
	}
	if q.IsFinalized() {
		return ErrQuotationFinalized
	}
	if q.Status == QuotationCancelled {
		return nil
	}
	q.Status = QuotationCancelled
	q.UpdatedAt = now
	return nil
}

func (q *Quotation) allDeclined() bool {
	if len(q.Quotes) == 0 {
		return false
	}
	for _, quote := range q.Quotes {
		if quote.Status != QuoteDeclined {
			return false
		}
	}
	return true
}
