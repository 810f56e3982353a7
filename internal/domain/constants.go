package domain

// Значения по умолчанию для настроек записи
// Используются только через SchedulingDefaults, напрямую не читаются калькулятором
const (
	DefaultDurationMinutes     = 30
	DefaultSlotIntervalMinutes = 30
	DefaultBufferMinutes       = 0
	DefaultMaxConcurrent       = 1
	DefaultMinAdvanceHours     = 2
	DefaultMaxAdvanceDays      = 30
	DefaultAlternativesHorizon = 14
	DefaultMaxAlternatives     = 5
	DefaultQuotationExpiryDays = 7
	DefaultCurrency            = "RUB"
	DefaultCancellationHours   = 24
	DefaultRescheduleHours     = 24
	DefaultReminderHoursBefore = 24
	DefaultTimezone            = "Europe/Moscow"
)

// Ограничения бизнес-валидации
const (
	MinDurationMinutes       = 30   // 0.5 часа
	MaxDurationMinutes       = 1440 // 24 часа
	MinSlotIntervalMinutes   = 5
	MaxSlotIntervalMinutes   = 240
	MaxBufferMinutes         = 120
	MaxConcurrentLimit       = 50
	MaxAdvanceDaysLimit      = 365
	MaxAvailabilityRangeDays = 31
	MaxTargetWorkshops       = 20
	MaxNotesLength           = 500
	MaxDescriptionLength     = 2000
	MaxQuotationExpiryDays   = 30
	MaxDeclineReasonLength   = 500
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Причина отклонения остальных предложений при выборе победителя
const ReasonAnotherQuoteAccepted = "customer accepted another quote"

// ReasonDeclinedByCustomer причина по умолчанию при ручном отклонении
const ReasonDeclinedByCustomer = "declined by customer"
