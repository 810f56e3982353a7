package domain

import (
	"time"

	"github.com/m04kA/SMC-QuoteService/pkg/types"
)

// ExceptionType тип исключения из расписания
type ExceptionType string

const (
	ExceptionClosed        ExceptionType = "closed"
	ExceptionHoliday       ExceptionType = "holiday"
	ExceptionModifiedHours ExceptionType = "modified_hours"
)

// IsValid проверяет тип исключения
func (t ExceptionType) IsValid() bool {
	return t == ExceptionClosed || t == ExceptionHoliday || t == ExceptionModifiedHours
}

// AvailabilityException переопределение расписания на конкретную дату
type AvailabilityException struct {
	ID        string            `json:"id"`
	Date      time.Time         `json:"date"`
	Type      ExceptionType     `json:"type"`
	Reason    string            `json:"reason,omitempty"`
	OpenTime  *types.TimeString `json:"openTime,omitempty"`
	CloseTime *types.TimeString `json:"closeTime,omitempty"`
}

// ClosesDay true для closed и holiday
func (e *AvailabilityException) ClosesDay() bool {
	return e.Type == ExceptionClosed || e.Type == ExceptionHoliday
}

// SlotSettings настройки слотов
type SlotSettings struct {
	DefaultDurationMinutes    int            `json:"defaultDurationMinutes"`
	SlotIntervalMinutes       int            `json:"slotIntervalMinutes"`
	BufferMinutes             int            `json:"bufferMinutes"`
	ServiceDurations          map[string]int `json:"serviceDurations,omitempty"` // минуты по типу услуги
	MaxConcurrentAppointments int            `json:"maxConcurrentAppointments"`
	AllowOverlapping          bool           `json:"allowOverlapping"`
}

// BookingSettings правила записи
type BookingSettings struct {
	MinAdvanceHours           int  `json:"minAdvanceHours"`
	MaxAdvanceDays            int  `json:"maxAdvanceDays"` // 0 = без ограничений
	CancellationDeadlineHours int  `json:"cancellationDeadlineHours"`
	RescheduleDeadlineHours   int  `json:"rescheduleDeadlineHours"`
	RequireConfirmation       bool `json:"requireConfirmation"`
	SendReminders             bool `json:"sendReminders"`
	ReminderHoursBefore       int  `json:"reminderHoursBefore"`
}

// DepositPolicy политика предоплаты
type DepositPolicy struct {
	Required bool    `json:"required"`
	Amount   float64 `json:"amount"`
	Percent  float64 `json:"percent"`
}

// AppointmentSettings настройки записи мастерской
// Одна запись на мастерскую, создаётся лениво с дефолтными значениями
type AppointmentSettings struct {
	WorkshopID         int64
	Enabled            bool
	Slot               SlotSettings
	Booking            BookingSettings
	UseWorkshopHours   bool
	CustomAvailability WeeklySchedule
	Exceptions         []AvailabilityException
	EnabledServices    []string
	Deposit            DepositPolicy
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ExceptionFor возвращает исключение на дату (сравниваются только год, месяц, день)
func (s *AppointmentSettings) ExceptionFor(date time.Time) *AvailabilityException {
	y, m, d := date.Date()
	for i := range s.Exceptions {
		ey, em, ed := s.Exceptions[i].Date.Date()
		if ey == y && em == m && ed == d {
			return &s.Exceptions[i]
		}
	}
	return nil
}

// EffectiveMaxConcurrent максимальное число одновременных записей
// При запрете пересечений всегда 1
func (s *AppointmentSettings) EffectiveMaxConcurrent() int {
	if !s.Slot.AllowOverlapping || s.Slot.MaxConcurrentAppointments < 1 {
		return 1
	}
	return s.Slot.MaxConcurrentAppointments
}

// IsServiceEnabled пустой список означает, что разрешены все услуги
func (s *AppointmentSettings) IsServiceEnabled(serviceType string) bool {
	if len(s.EnabledServices) == 0 {
		return true
	}
	for _, st := range s.EnabledServices {
		if st == serviceType {
			return true
		}
	}
	return false
}

// SchedulingDefaults явная конфигурация значений по умолчанию
// Заполняется из секции [scheduling] конфига и передаётся в калькулятор доступности
type SchedulingDefaults struct {
	DefaultDurationMinutes  int
	SlotIntervalMinutes     int
	BufferMinutes           int
	MaxConcurrent           int
	MinAdvanceHours         int
	MaxAdvanceDays          int
	AlternativesHorizonDays int
	MaxAlternatives         int
	ServiceDurations        map[string]int
	Location                *time.Location
}

// DefaultServiceDurations справочник длительностей услуг (минуты)
func DefaultServiceDurations() map[string]int {
	return map[string]int{
		"oil_change":          30,
		"diagnostic":          60,
		"tire_change":         45,
		"brake_service":       90,
		"inspection":          60,
		"battery_replacement": 30,
		"ac_service":          90,
		"wheel_alignment":     60,
		"engine_repair":       240,
		"transmission_repair": 300,
		"body_work":           480,
	}
}

// NewSchedulingDefaults дефолты без конфига
func NewSchedulingDefaults() SchedulingDefaults {
	return SchedulingDefaults{
		DefaultDurationMinutes:  DefaultDurationMinutes,
		SlotIntervalMinutes:     DefaultSlotIntervalMinutes,
		BufferMinutes:           DefaultBufferMinutes,
		MaxConcurrent:           DefaultMaxConcurrent,
		MinAdvanceHours:         DefaultMinAdvanceHours,
		MaxAdvanceDays:          DefaultMaxAdvanceDays,
		AlternativesHorizonDays: DefaultAlternativesHorizon,
		MaxAlternatives:         DefaultMaxAlternatives,
		ServiceDurations:        DefaultServiceDurations(),
		Location:                time.UTC,
	}
}

// NewDefaultSettings создает настройки мастерской из дефолтов
func (d SchedulingDefaults) NewDefaultSettings(workshopID int64) *AppointmentSettings {
	return &AppointmentSettings{
		WorkshopID: workshopID,
		Enabled:    true,
		Slot: SlotSettings{
			DefaultDurationMinutes:    d.DefaultDurationMinutes,
			SlotIntervalMinutes:       d.SlotIntervalMinutes,
			BufferMinutes:             d.BufferMinutes,
			ServiceDurations:          map[string]int{},
			MaxConcurrentAppointments: d.MaxConcurrent,
			AllowOverlapping:          false,
		},
		Booking: BookingSettings{
			MinAdvanceHours:           d.MinAdvanceHours,
			MaxAdvanceDays:            d.MaxAdvanceDays,
			CancellationDeadlineHours: DefaultCancellationHours,
			RescheduleDeadlineHours:   DefaultRescheduleHours,
			RequireConfirmation:       false,
			SendReminders:             true,
			ReminderHoursBefore:       DefaultReminderHoursBefore,
		},
		UseWorkshopHours: true,
		Exceptions:       []AvailabilityException{},
		EnabledServices:  []string{},
	}
}

// Normalize подставляет дефолты в незаполненные поля
// Правила: длительность/интервал 0 -> дефолт, буфер < 0 -> 0, maxConcurrent < 1 -> 1
func (d SchedulingDefaults) Normalize(s *AppointmentSettings) {
	if s.Slot.DefaultDurationMinutes <= 0 {
		s.Slot.DefaultDurationMinutes = d.DefaultDurationMinutes
	}
	if s.Slot.SlotIntervalMinutes <= 0 {
		s.Slot.SlotIntervalMinutes = d.SlotIntervalMinutes
	}
	if s.Slot.BufferMinutes < 0 {
		s.Slot.BufferMinutes = 0
	}
	if s.Slot.MaxConcurrentAppointments < 1 {
		s.Slot.MaxConcurrentAppointments = 1
	}
	if s.Booking.MinAdvanceHours < 0 {
		s.Booking.MinAdvanceHours = 0
	}
	if s.Booking.MaxAdvanceDays < 0 {
		s.Booking.MaxAdvanceDays = 0
	}
	if s.Slot.ServiceDurations == nil {
		s.Slot.ServiceDurations = map[string]int{}
	}
}
