package remove_exception

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-QuoteService/internal/api/handlers"
	"github.com/m04kA/SMC-QuoteService/internal/api/middleware"
	"github.com/m04kA/SMC-QuoteService/internal/service/settings"
)

const (
	msgInvalidWorkshopID = "некорректный ID мастерской"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgNotFound          = "исключение из расписания не найдено"
	msgWorkshopNotFound  = "мастерская не найдена"
	msgForbidden         = "только сотрудники мастерской могут менять расписание"
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

// Handle DELETE /api/v1/workshops/{workshopId}/appointment-settings/exceptions/{exceptionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	workshopID, ok := handlers.PathInt64(r, "workshopId")
	if !ok {
		h.logger.Warn("DELETE /workshops/{id}/appointment-settings/exceptions/{id} - Invalid workshop ID")
		handlers.RespondBadRequest(w, msgInvalidWorkshopID)
		return
	}
	exceptionID := mux.Vars(r)["exceptionId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /workshops/{id}/appointment-settings/exceptions/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.RemoveException(r.Context(), workshopID, userID, exceptionID); err != nil {
		switch {
		case errors.Is(err, settings.ErrExceptionNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, settings.ErrWorkshopNotFound):
			handlers.RespondNotFound(w, msgWorkshopNotFound)

		case errors.Is(err, settings.ErrAccessDenied):
			h.logger.Warn("DELETE /workshops/{id}/appointment-settings/exceptions/{id} - Access denied: workshop_id=%d, user_id=%d",
				workshopID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, settings.ErrTransient):
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("DELETE /workshops/{id}/appointment-settings/exceptions/{id} - Failed to remove exception: workshop_id=%d, error=%v",
				workshopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /workshops/{id}/appointment-settings/exceptions/{id} - Exception removed: workshop_id=%d, exception_id=%s",
		workshopID, exceptionID)
	w.WriteHeader(http.StatusNoContent)
}
