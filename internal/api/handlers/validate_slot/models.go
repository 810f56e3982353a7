package validate_slot

import (
	"github.com/m04kA/SMC-QuoteService/internal/domain"
	validateSlot "github.com/m04kA/SMC-QuoteService/internal/usecase/validate_slot"
)

// SlotCheckResponse HTTP response model
type SlotCheckResponse struct {
	Available       bool                  `json:"available"`
	Code            string                `json:"code,omitempty"`
	Reason          string                `json:"reason,omitempty"`
	DurationMinutes int                   `json:"durationMinutes"`
	Alternatives    []AlternativeResponse `json:"alternatives"`
}

// AlternativeResponse ближайший свободный слот
type AlternativeResponse struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *validateSlot.Response) *SlotCheckResponse {
	alternatives := make([]AlternativeResponse, 0, len(resp.Alternatives))
	for _, a := range resp.Alternatives {
		alternatives = append(alternatives, AlternativeResponse{
			Date:      a.Date.Format(domain.DateFormat),
			StartTime: a.StartTime.String(),
			EndTime:   a.EndTime.String(),
		})
	}

	return &SlotCheckResponse{
		Available:       resp.Available,
		Code:            resp.Code,
		Reason:          resp.Reason,
		DurationMinutes: resp.DurationMinutes,
		Alternatives:    alternatives,
	}
}
