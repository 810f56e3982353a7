package validate_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-QuoteService/internal/api/handlers"
	validateSlot "github.com/m04kA/SMC-QuoteService/internal/usecase/validate_slot"
	"github.com/m04kA/SMC-QuoteService/pkg/types"
)

const (
	msgInvalidWorkshopID   = "некорректный ID мастерской"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime         = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidDuration     = "некорректная длительность, ожидается число часов"
	msgInvalidAlternatives = "некорректное значение alternatives, ожидается true или false"
	msgInvalidRequest      = "некорректные параметры запроса"
	msgWorkshopNotFound    = "мастерская не найдена"
)

type Handler struct {
	useCase ValidateSlotUseCase
	logger  Logger
}

func NewHandler(useCase ValidateSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/workshops/{workshopId}/availability/check?date=2025-10-20&startTime=10:00&duration=1&alternatives=true
// Недоступный слот - 200 с available=false и причиной
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	workshopID, ok := handlers.PathInt64(r, "workshopId")
	if !ok {
		h.logger.Warn("GET /workshops/{id}/availability/check - Invalid workshop ID")
		handlers.RespondBadRequest(w, msgInvalidWorkshopID)
		return
	}

	date, err := handlers.QueryDate(r, "date")
	if err != nil {
		h.logger.Warn("GET /workshops/{id}/availability/check - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	startTime, err := types.NewTimeStringFromString(r.URL.Query().Get("startTime"))
	if err != nil {
		h.logger.Warn("GET /workshops/{id}/availability/check - Invalid start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	duration, err := handlers.QueryFloat(r, "duration")
	if err != nil {
		h.logger.Warn("GET /workshops/{id}/availability/check - Invalid duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	includeAlternatives := false
	if raw := r.URL.Query().Get("alternatives"); raw != "" {
		if includeAlternatives, err = strconv.ParseBool(raw); err != nil {
			h.logger.Warn("GET /workshops/{id}/availability/check - Invalid alternatives flag: %v", err)
			handlers.RespondBadRequest(w, msgInvalidAlternatives)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &validateSlot.Request{
		WorkshopID:          workshopID,
		Date:                date,
		StartTime:           startTime,
		DurationHours:       duration,
		ServiceTypes:        handlers.QueryList(r, "serviceTypes"),
		IncludeAlternatives: includeAlternatives,
	})
	if err != nil {
		switch {
		case errors.Is(err, validateSlot.ErrInvalidInput):
			h.logger.Warn("GET /workshops/{id}/availability/check - Invalid input: workshop_id=%d, error=%v", workshopID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, validateSlot.ErrWorkshopNotFound):
			h.logger.Warn("GET /workshops/{id}/availability/check - Workshop not found: workshop_id=%d", workshopID)
			handlers.RespondNotFound(w, msgWorkshopNotFound)

		case errors.Is(err, validateSlot.ErrTransient):
			h.logger.Warn("GET /workshops/{id}/availability/check - Temporary failure: workshop_id=%d, error=%v",
				workshopID, err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("GET /workshops/{id}/availability/check - Failed to validate slot: workshop_id=%d, error=%v",
				workshopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /workshops/{id}/availability/check - Slot checked: workshop_id=%d, available=%t, code=%s",
		workshopID, result.Available, result.Code)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
