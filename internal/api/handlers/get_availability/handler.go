package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-QuoteService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-QuoteService/internal/usecase/get_availability"
)

const (
	msgInvalidWorkshopID = "некорректный ID мастерской"
	msgInvalidStartDate  = "некорректный формат startDate, ожидается YYYY-MM-DD"
	msgInvalidEndDate    = "некорректный формат endDate, ожидается YYYY-MM-DD"
	msgInvalidDuration   = "некорректная длительность, ожидается число часов"
	msgInvalidRequest    = "некорректные параметры запроса"
	msgWorkshopNotFound  = "мастерская не найдена"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/workshops/{workshopId}/availability?startDate=2025-10-20&endDate=2025-10-26&duration=1.5
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	workshopID, ok := handlers.PathInt64(r, "workshopId")
	if !ok {
		h.logger.Warn("GET /workshops/{id}/availability - Invalid workshop ID")
		handlers.RespondBadRequest(w, msgInvalidWorkshopID)
		return
	}

	startDate, err := handlers.QueryDate(r, "startDate")
	if err != nil {
		h.logger.Warn("GET /workshops/{id}/availability - Invalid startDate: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartDate)
		return
	}

	// Без endDate - один день
	endDate := startDate
	if r.URL.Query().Get("endDate") != "" {
		if endDate, err = handlers.QueryDate(r, "endDate"); err != nil {
			h.logger.Warn("GET /workshops/{id}/availability - Invalid endDate: %v", err)
			handlers.RespondBadRequest(w, msgInvalidEndDate)
			return
		}
	}

	duration, err := handlers.QueryFloat(r, "duration")
	if err != nil {
		h.logger.Warn("GET /workshops/{id}/availability - Invalid duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		WorkshopID:    workshopID,
		StartDate:     startDate,
		EndDate:       endDate,
		DurationHours: duration,
		ServiceTypes:  handlers.QueryList(r, "serviceTypes"),
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /workshops/{id}/availability - Invalid input: workshop_id=%d, error=%v", workshopID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, getAvailability.ErrWorkshopNotFound):
			h.logger.Warn("GET /workshops/{id}/availability - Workshop not found: workshop_id=%d", workshopID)
			handlers.RespondNotFound(w, msgWorkshopNotFound)

		case errors.Is(err, getAvailability.ErrTransient):
			h.logger.Warn("GET /workshops/{id}/availability - Temporary failure: workshop_id=%d, error=%v", workshopID, err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("GET /workshops/{id}/availability - Failed to get availability: workshop_id=%d, error=%v",
				workshopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /workshops/{id}/availability - Availability calculated: workshop_id=%d, days=%d",
		workshopID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
