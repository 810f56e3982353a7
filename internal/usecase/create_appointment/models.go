package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-QuoteService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	WorkshopID    int64
	CustomerID    int64
	Date          time.Time        // дата без времени
	StartTime     types.TimeString // "10:00"
	DurationHours *float64         // если не задана - оценка по услугам или по принятому предложению
	ServiceTypes  []string
	QuotationID   *string // запрос с принятым предложением этой мастерской
	Notes         *string
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	WorkshopID      int64
	CustomerID      int64
	QuotationID     *string
	ScheduledDate   time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          string
	ServiceTypes    []string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
