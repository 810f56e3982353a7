package models

import (
	"time"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID int64  `json:"-"`
	Reason string `json:"reason,omitempty"`
}

// WorkshopAppointmentsRequest записи мастерской за период
type WorkshopAppointmentsRequest struct {
	UserID          int64
	WorkshopID      int64
	StartDate       time.Time
	EndDate         time.Time
	IncludeInactive bool
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                 int64     `json:"id"`
	WorkshopID         int64     `json:"workshopId"`
	CustomerID         int64     `json:"customerId"`
	QuotationID        *string   `json:"quotationId,omitempty"`
	ScheduledDate      string    `json:"scheduledDate"` // "2025-10-20"
	StartTime          string    `json:"startTime"`     // "10:00"
	EndTime            string    `json:"endTime"`
	DurationMinutes    int       `json:"durationMinutes"`
	Status             string    `json:"status"`
	ServiceTypes       []string  `json:"serviceTypes"`
	Notes              *string   `json:"notes,omitempty"`
	CancellationReason *string   `json:"cancellationReason,omitempty"`
	CancelledAt        *string   `json:"cancelledAt,omitempty"` // RFC 3339
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	serviceTypes := a.ServiceTypes
	if serviceTypes == nil {
		serviceTypes = []string{}
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		WorkshopID:         a.WorkshopID,
		CustomerID:         a.CustomerID,
		QuotationID:        a.QuotationID,
		ScheduledDate:      a.ScheduledDate.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		EndTime:            a.StartTime.AddMinutes(a.DurationMinutes).String(),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		ServiceTypes:       serviceTypes,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelled := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}
	for _, a := range appointments {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	resp.Total = len(resp.Appointments)
	return resp
}
