package get_availability

import (
	"time"

	"github.com/m04kA/SMC-QuoteService/pkg/types"
)

// Request запрос свободных слотов за период
// Длительность берётся из DurationHours, иначе оценивается по ServiceTypes
type Request struct {
	WorkshopID    int64
	StartDate     time.Time
	EndDate       time.Time // включительно
	DurationHours *float64
	ServiceTypes  []string
}

// Response слоты по дням
type Response struct {
	WorkshopID      int64
	DurationMinutes int
	Days            []Day
}

// Day слоты одного дня
type Day struct {
	Date           time.Time
	Closed         bool
	AvailableCount int
	Slots          []Slot
}

// Slot кандидат на запись
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Available bool
	Reason    string
}
