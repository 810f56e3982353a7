package availability

import (
	"time"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	"github.com/m04kA/SMC-QuoteService/pkg/types"
)

// ReasonCode машинно-читаемая причина недоступности
type ReasonCode string

const (
	CodeBookingDisabled ReasonCode = "booking_disabled"
	CodeClosed          ReasonCode = "closed"
	CodeOutsideHours    ReasonCode = "outside_hours"
	CodeInPast          ReasonCode = "in_past"
	CodeTooSoon         ReasonCode = "too_soon"
	CodeTooFar          ReasonCode = "too_far"
	CodeConflict        ReasonCode = "conflict"
	CodeMaxConcurrent   ReasonCode = "max_concurrent"
)

// Тексты причин
const (
	ReasonBookingDisabled = "booking disabled"
	ReasonClosed          = "closed"
	ReasonOutsideHours    = "outside working hours"
	ReasonInPast          = "slot is in the past"
	ReasonConflict        = "conflicts with existing appointment"
	ReasonMaxConcurrent   = "max concurrent appointments reached"
)

// Input данные, на основе которых считается доступность
// Все вычисления - чистые функции от Input: без кеша и общего состояния
type Input struct {
	Settings     *domain.AppointmentSettings
	Workshop     *domain.Workshop // рабочие часы, если Settings.UseWorkshopHours
	Appointments []*domain.Appointment
	Defaults     domain.SchedulingDefaults
	Now          time.Time
}

// Range период и длительность для расчёта слотов
type Range struct {
	StartDate       time.Time
	EndDate         time.Time // включительно
	DurationMinutes int
}

// SlotRequest проверка конкретного слота
type SlotRequest struct {
	Date                time.Time
	Start               types.TimeString
	DurationMinutes     int
	IncludeAlternatives bool
}

// Result результат проверки слота
// Недоступность - ожидаемый исход, а не ошибка
type Result struct {
	Available    bool
	Code         ReasonCode
	Reason       string
	Alternatives []domain.SlotRef
}

func unavailable(code ReasonCode, reason string) Result {
	return Result{Available: false, Code: code, Reason: reason}
}
