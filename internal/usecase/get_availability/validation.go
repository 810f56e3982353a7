package get_availability

import (
	"fmt"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.WorkshopID <= 0 {
		return fmt.Errorf("%w: workshopID must be positive", ErrInvalidInput)
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}

	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
	}

	// Период считается включительно
	days := int(req.EndDate.Sub(req.StartDate).Hours()/24) + 1
	if days > domain.MaxAvailabilityRangeDays {
		return fmt.Errorf("%w: date range must not exceed %d days", ErrInvalidInput, domain.MaxAvailabilityRangeDays)
	}

	if req.DurationHours != nil {
		minutes := *req.DurationHours * 60
		if minutes < domain.MinDurationMinutes || minutes > domain.MaxDurationMinutes {
			return fmt.Errorf("%w: duration must be between 0.5 and 24 hours", ErrInvalidInput)
		}
	}

	return nil
}
