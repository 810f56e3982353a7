package get_availability

import (
	"github.com/m04kA/SMC-QuoteService/internal/domain"
	getAvailability "github.com/m04kA/SMC-QuoteService/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	WorkshopID      int64         `json:"workshopId"`
	DurationMinutes int           `json:"durationMinutes"`
	Days            []DayResponse `json:"days"`
}

// DayResponse слоты одного дня
type DayResponse struct {
	Date           string         `json:"date"` // "2025-10-20"
	Closed         bool           `json:"closed"`
	AvailableCount int            `json:"availableCount"`
	Slots          []SlotResponse `json:"slots"`
}

// SlotResponse слот с признаком доступности
type SlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	days := make([]DayResponse, 0, len(resp.Days))
	for _, d := range resp.Days {
		slots := make([]SlotResponse, 0, len(d.Slots))
		for _, s := range d.Slots {
			slots = append(slots, SlotResponse{
				StartTime: s.StartTime.String(),
				EndTime:   s.EndTime.String(),
				Available: s.Available,
				Reason:    s.Reason,
			})
		}
		days = append(days, DayResponse{
			Date:           d.Date.Format(domain.DateFormat),
			Closed:         d.Closed,
			AvailableCount: d.AvailableCount,
			Slots:          slots,
		})
	}

	return &AvailabilityResponse{
		WorkshopID:      resp.WorkshopID,
		DurationMinutes: resp.DurationMinutes,
		Days:            days,
	}
}
