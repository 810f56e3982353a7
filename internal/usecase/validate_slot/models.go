package validate_slot

import (
	"time"

	"github.com/m04kA/SMC-QuoteService/pkg/types"
)

// Request проверка конкретного слота
type Request struct {
	WorkshopID          int64
	Date                time.Time
	StartTime           types.TimeString
	DurationHours       *float64 // если не задана - оценка по ServiceTypes
	ServiceTypes        []string
	IncludeAlternatives bool
}

// Response результат проверки
// Недоступный слот - нормальный ответ с причиной, а не ошибка
type Response struct {
	Available       bool
	Code            string
	Reason          string
	DurationMinutes int
	Alternatives    []Alternative
}

// Alternative свободный слот той же длительности
type Alternative struct {
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
}
