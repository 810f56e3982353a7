package models

import (
	"time"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
)

// Request модели

// UpdateSettingsRequest частичное обновление настроек
// Обновляются только переданные поля
type UpdateSettingsRequest struct {
	UserID             int64                  `json:"-"`
	Enabled            *bool                  `json:"enabled,omitempty"`
	Slot               *SlotSettingsPatch     `json:"slotSettings,omitempty"`
	Booking            *BookingSettingsPatch  `json:"bookingSettings,omitempty"`
	UseWorkshopHours   *bool                  `json:"useWorkshopHours,omitempty"`
	CustomAvailability *domain.WeeklySchedule `json:"customAvailability,omitempty"`
	EnabledServices    *[]string              `json:"enabledServices,omitempty"`
	Deposit            *domain.DepositPolicy  `json:"deposit,omitempty"`
}

// SlotSettingsPatch изменения настроек слотов
type SlotSettingsPatch struct {
	DefaultDurationMinutes    *int            `json:"defaultDurationMinutes,omitempty"`
	SlotIntervalMinutes       *int            `json:"slotIntervalMinutes,omitempty"`
	BufferMinutes             *int            `json:"bufferMinutes,omitempty"`
	ServiceDurations          *map[string]int `json:"serviceDurations,omitempty"`
	MaxConcurrentAppointments *int            `json:"maxConcurrentAppointments,omitempty"`
	AllowOverlapping          *bool           `json:"allowOverlapping,omitempty"`
}

// BookingSettingsPatch изменения правил записи
type BookingSettingsPatch struct {
	MinAdvanceHours           *int  `json:"minAdvanceHours,omitempty"`
	MaxAdvanceDays            *int  `json:"maxAdvanceDays,omitempty"`
	CancellationDeadlineHours *int  `json:"cancellationDeadlineHours,omitempty"`
	RescheduleDeadlineHours   *int  `json:"rescheduleDeadlineHours,omitempty"`
	RequireConfirmation       *bool `json:"requireConfirmation,omitempty"`
	SendReminders             *bool `json:"sendReminders,omitempty"`
	ReminderHoursBefore       *int  `json:"reminderHoursBefore,omitempty"`
}

// ApplyTo применяет изменения к настройкам
func (r *UpdateSettingsRequest) ApplyTo(s *domain.AppointmentSettings) {
	if r.Enabled != nil {
		s.Enabled = *r.Enabled
	}
	if r.UseWorkshopHours != nil {
		s.UseWorkshopHours = *r.UseWorkshopHours
	}
	if r.CustomAvailability != nil {
		s.CustomAvailability = *r.CustomAvailability
	}
	if r.EnabledServices != nil {
		s.EnabledServices = *r.EnabledServices
	}
	if r.Deposit != nil {
		s.Deposit = *r.Deposit
	}

	if p := r.Slot; p != nil {
		setInt(&s.Slot.DefaultDurationMinutes, p.DefaultDurationMinutes)
		setInt(&s.Slot.SlotIntervalMinutes, p.SlotIntervalMinutes)
		setInt(&s.Slot.BufferMinutes, p.BufferMinutes)
		setInt(&s.Slot.MaxConcurrentAppointments, p.MaxConcurrentAppointments)
		if p.ServiceDurations != nil {
			s.Slot.ServiceDurations = *p.ServiceDurations
		}
		if p.AllowOverlapping != nil {
			s.Slot.AllowOverlapping = *p.AllowOverlapping
		}
	}

	if p := r.Booking; p != nil {
		setInt(&s.Booking.MinAdvanceHours, p.MinAdvanceHours)
		setInt(&s.Booking.MaxAdvanceDays, p.MaxAdvanceDays)
		setInt(&s.Booking.CancellationDeadlineHours, p.CancellationDeadlineHours)
		setInt(&s.Booking.RescheduleDeadlineHours, p.RescheduleDeadlineHours)
		setInt(&s.Booking.ReminderHoursBefore, p.ReminderHoursBefore)
		if p.RequireConfirmation != nil {
			s.Booking.RequireConfirmation = *p.RequireConfirmation
		}
		if p.SendReminders != nil {
			s.Booking.SendReminders = *p.SendReminders
		}
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// AddExceptionRequest исключение из расписания на дату
type AddExceptionRequest struct {
	UserID    int64   `json:"-"`
	Date      string  `json:"date"` // "2025-10-20"
	Type      string  `json:"type"` // closed | holiday | modified_hours
	Reason    string  `json:"reason,omitempty"`
	OpenTime  *string `json:"openTime,omitempty"`  // только для modified_hours
	CloseTime *string `json:"closeTime,omitempty"` // только для modified_hours
}

// EstimateDurationRequest оценка длительности набора услуг
type EstimateDurationRequest struct {
	ServiceTypes []string `json:"serviceTypes"`
}

// Response модели

// ExceptionResponse исключение из расписания
type ExceptionResponse struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	Type      string  `json:"type"`
	Reason    string  `json:"reason,omitempty"`
	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`
}

// SettingsResponse настройки записи мастерской
type SettingsResponse struct {
	WorkshopID         int64                  `json:"workshopId"`
	Enabled            bool                   `json:"enabled"`
	Slot               domain.SlotSettings    `json:"slotSettings"`
	Booking            domain.BookingSettings `json:"bookingSettings"`
	UseWorkshopHours   bool                   `json:"useWorkshopHours"`
	CustomAvailability domain.WeeklySchedule  `json:"customAvailability"`
	Exceptions         []ExceptionResponse    `json:"exceptions"`
	EnabledServices    []string               `json:"enabledServices"`
	Deposit            domain.DepositPolicy   `json:"deposit"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
}

// DurationEstimateResponse оценка длительности
type DurationEstimateResponse struct {
	ServiceTypes    []string `json:"serviceTypes"`
	DurationMinutes int      `json:"durationMinutes"`
	DurationHours   float64  `json:"durationHours"`
}

// Методы конвертации

// FromDomainException конвертирует исключение
func FromDomainException(e domain.AvailabilityException) ExceptionResponse {
	resp := ExceptionResponse{
		ID:     e.ID,
		Date:   e.Date.Format(domain.DateFormat),
		Type:   string(e.Type),
		Reason: e.Reason,
	}
	if e.OpenTime != nil {
		v := e.OpenTime.String()
		resp.OpenTime = &v
	}
	if e.CloseTime != nil {
		v := e.CloseTime.String()
		resp.CloseTime = &v
	}
	return resp
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.AppointmentSettings) *SettingsResponse {
	if s == nil {
		return nil
	}

	exceptions := make([]ExceptionResponse, 0, len(s.Exceptions))
	for _, e := range s.Exceptions {
		exceptions = append(exceptions, FromDomainException(e))
	}

	enabled := s.EnabledServices
	if enabled == nil {
		enabled = []string{}
	}

	return &SettingsResponse{
		WorkshopID:         s.WorkshopID,
		Enabled:            s.Enabled,
		Slot:               s.Slot,
		Booking:            s.Booking,
		UseWorkshopHours:   s.UseWorkshopHours,
		CustomAvailability: s.CustomAvailability,
		Exceptions:         exceptions,
		EnabledServices:    enabled,
		Deposit:            s.Deposit,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}
