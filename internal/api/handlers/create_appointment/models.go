package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	createAppointment "github.com/m04kA/SMC-QuoteService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-QuoteService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	Date          string   `json:"date"`      // "2025-10-20"
	StartTime     string   `json:"startTime"` // "10:00"
	DurationHours *float64 `json:"durationHours,omitempty"`
	ServiceTypes  []string `json:"serviceTypes,omitempty"`
	QuotationID   *string  `json:"quotationId,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64    `json:"id"`
	WorkshopID      int64    `json:"workshopId"`
	CustomerID      int64    `json:"customerId"`
	QuotationID     *string  `json:"quotationId,omitempty"`
	ScheduledDate   string   `json:"scheduledDate"`
	StartTime       string   `json:"startTime"`
	EndTime         string   `json:"endTime"`
	DurationMinutes int      `json:"durationMinutes"`
	Status          string   `json:"status"`
	ServiceTypes    []string `json:"serviceTypes"`
	Notes           *string  `json:"notes,omitempty"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(workshopID, customerID int64) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		WorkshopID:    workshopID,
		CustomerID:    customerID,
		Date:          date,
		StartTime:     startTime,
		DurationHours: r.DurationHours,
		ServiceTypes:  r.ServiceTypes,
		QuotationID:   r.QuotationID,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	serviceTypes := resp.ServiceTypes
	if serviceTypes == nil {
		serviceTypes = []string{}
	}

	return &AppointmentResponse{
		ID:              resp.ID,
		WorkshopID:      resp.WorkshopID,
		CustomerID:      resp.CustomerID,
		QuotationID:     resp.QuotationID,
		ScheduledDate:   resp.ScheduledDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		ServiceTypes:    serviceTypes,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
