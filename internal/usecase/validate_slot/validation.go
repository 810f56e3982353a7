package validate_slot

import (
	"fmt"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.WorkshopID <= 0 {
		return fmt.Errorf("%w: workshopID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.DurationHours != nil {
		minutes := *req.DurationHours * 60
		if minutes < domain.MinDurationMinutes || minutes > domain.MaxDurationMinutes {
			return fmt.Errorf("%w: duration must be between 0.5 and 24 hours", ErrInvalidInput)
		}
	}

	return nil
}
