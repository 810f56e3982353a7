package update_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-QuoteService/internal/api/handlers"
	"github.com/m04kA/SMC-QuoteService/internal/api/middleware"
	"github.com/m04kA/SMC-QuoteService/internal/service/settings"
	"github.com/m04kA/SMC-QuoteService/internal/service/settings/models"
)

const (
	msgInvalidWorkshopID  = "некорректный ID мастерской"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidSettings    = "некорректные настройки записи"
	msgWorkshopNotFound   = "мастерская не найдена"
	msgForbidden          = "только сотрудники мастерской могут менять настройки записи"
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

// Handle PUT /api/v1/workshops/{workshopId}/appointment-settings
// Частичное обновление: незаданные поля не меняются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	workshopID, ok := handlers.PathInt64(r, "workshopId")
	if !ok {
		h.logger.Warn("PUT /workshops/{id}/appointment-settings - Invalid workshop ID")
		handlers.RespondBadRequest(w, msgInvalidWorkshopID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /workshops/{id}/appointment-settings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /workshops/{id}/appointment-settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	resp, err := h.service.Update(r.Context(), workshopID, &req)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrInvalidInput):
			h.logger.Warn("PUT /workshops/{id}/appointment-settings - Invalid settings: workshop_id=%d, error=%v",
				workshopID, err)
			handlers.RespondBadRequest(w, msgInvalidSettings)

		case errors.Is(err, settings.ErrWorkshopNotFound):
			h.logger.Warn("PUT /workshops/{id}/appointment-settings - Workshop not found: workshop_id=%d", workshopID)
			handlers.RespondNotFound(w, msgWorkshopNotFound)

		case errors.Is(err, settings.ErrAccessDenied):
			h.logger.Warn("PUT /workshops/{id}/appointment-settings - Access denied: workshop_id=%d, user_id=%d",
				workshopID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, settings.ErrTransient):
			h.logger.Warn("PUT /workshops/{id}/appointment-settings - Temporary failure: workshop_id=%d, error=%v",
				workshopID, err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("PUT /workshops/{id}/appointment-settings - Failed to update settings: workshop_id=%d, error=%v",
				workshopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /workshops/{id}/appointment-settings - Settings updated: workshop_id=%d, user_id=%d",
		workshopID, userID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
