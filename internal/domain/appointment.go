package domain

import (
	"time"

	"github.com/m04kA/SMC-QuoteService/pkg/types"
)

// AppointmentStatus статус записи на обслуживание
type AppointmentStatus string

const (
	AppointmentPending    AppointmentStatus = "pending"
	AppointmentConfirmed  AppointmentStatus = "confirmed"
	AppointmentInProgress AppointmentStatus = "in_progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
	AppointmentNoShow     AppointmentStatus = "no_show"
)

// InactiveAppointmentStatuses статусы, которые не занимают время мастерской
var InactiveAppointmentStatuses = []AppointmentStatus{
	AppointmentCancelled,
	AppointmentNoShow,
}

// Appointment запись клиента в мастерскую
type Appointment struct {
	ID                 int64
	WorkshopID         int64
	CustomerID         int64
	QuotationID        *string
	ScheduledDate      time.Time
	StartTime          types.TimeString
	DurationMinutes    int
	Status             AppointmentStatus
	ServiceTypes       []string
	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsActive запись занимает время (не отменена и не no-show)
func (a *Appointment) IsActive() bool {
	for _, s := range InactiveAppointmentStatuses {
		if a.Status == s {
			return false
		}
	}
	return true
}

// StartMinute минуты от полуночи
func (a *Appointment) StartMinute() int {
	return a.StartTime.Minutes()
}

// EndMinute конец записи в минутах от полуночи (может превышать 1440)
func (a *Appointment) EndMinute() int {
	return a.StartTime.Minutes() + a.DurationMinutes
}

// StartsAt момент начала записи в часовом поясе даты
func (a *Appointment) StartsAt() time.Time {
	return a.StartTime.On(a.ScheduledDate)
}

// CanBeCancelled запись активна, ещё не началась и до начала осталось не меньше deadlineHours
func (a *Appointment) CanBeCancelled(now time.Time, deadlineHours int) bool {
	if !a.IsActive() || a.Status == AppointmentCompleted || a.Status == AppointmentInProgress {
		return false
	}
	return a.StartsAt().Sub(now) >= time.Duration(deadlineHours)*time.Hour
}

// AppointmentsFilter фильтр записей мастерской
type AppointmentsFilter struct {
	WorkshopID      int64
	StartDate       time.Time
	EndDate         time.Time
	IncludeInactive bool
}
