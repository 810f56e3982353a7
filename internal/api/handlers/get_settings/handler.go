package get_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-QuoteService/internal/api/handlers"
	"github.com/m04kA/SMC-QuoteService/internal/service/settings"
)

const msgInvalidWorkshopID = "некорректный ID мастерской"

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

// Handle GET /api/v1/workshops/{workshopId}/appointment-settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	workshopID, ok := handlers.PathInt64(r, "workshopId")
	if !ok {
		h.logger.Warn("GET /workshops/{id}/appointment-settings - Invalid workshop ID")
		handlers.RespondBadRequest(w, msgInvalidWorkshopID)
		return
	}

	resp, err := h.service.Get(r.Context(), workshopID)
	if err != nil {
		if errors.Is(err, settings.ErrTransient) {
			h.logger.Warn("GET /workshops/{id}/appointment-settings - Temporary failure: workshop_id=%d, error=%v",
				workshopID, err)
			handlers.RespondUnavailable(w)
			return
		}
		h.logger.Error("GET /workshops/{id}/appointment-settings - Failed to get settings: workshop_id=%d, error=%v",
			workshopID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
