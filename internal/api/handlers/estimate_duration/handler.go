package estimate_duration

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-QuoteService/internal/api/handlers"
	"github.com/m04kA/SMC-QuoteService/internal/service/settings"
	"github.com/m04kA/SMC-QuoteService/internal/service/settings/models"
)

const (
	msgInvalidWorkshopID  = "некорректный ID мастерской"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidServices    = "укажите услуги, которые оказывает мастерская"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/workshops/{workshopId}/duration-estimate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	workshopID, ok := handlers.PathInt64(r, "workshopId")
	if !ok {
		h.logger.Warn("POST /workshops/{id}/duration-estimate - Invalid workshop ID")
		handlers.RespondBadRequest(w, msgInvalidWorkshopID)
		return
	}

	var req models.EstimateDurationRequest
	// Пустое тело - оценка без услуг
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("POST /workshops/{id}/duration-estimate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.EstimateDuration(r.Context(), workshopID, &req)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrInvalidInput):
			h.logger.Warn("POST /workshops/{id}/duration-estimate - Invalid services: workshop_id=%d, error=%v",
				workshopID, err)
			handlers.RespondBadRequest(w, msgInvalidServices)

		case errors.Is(err, settings.ErrTransient):
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("POST /workshops/{id}/duration-estimate - Failed to estimate duration: workshop_id=%d, error=%v",
				workshopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
