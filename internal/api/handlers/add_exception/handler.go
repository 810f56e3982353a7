package add_exception

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
	msgInvalidException   = "некорректное исключение из расписания"
	msgExceptionExists    = "на эту дату уже есть исключение из расписания"
	msgWorkshopNotFound   = "мастерская не найдена"
	msgForbidden          = "только сотрудники мастерской могут менять расписание"
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

// Handle POST /api/v1/workshops/{workshopId}/appointment-settings/exceptions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	workshopID, ok := handlers.PathInt64(r, "workshopId")
	if !ok {
		h.logger.Warn("POST /workshops/{id}/appointment-settings/exceptions - Invalid workshop ID")
		handlers.RespondBadRequest(w, msgInvalidWorkshopID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /workshops/{id}/appointment-settings/exceptions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.AddExceptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /workshops/{id}/appointment-settings/exceptions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	resp, err := h.service.AddException(r.Context(), workshopID, &req)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrInvalidInput):
			h.logger.Warn("POST /workshops/{id}/appointment-settings/exceptions - Invalid exception: %v", err)
			handlers.RespondBadRequest(w, msgInvalidException)

		case errors.Is(err, settings.ErrExceptionExists):
			h.logger.Warn("POST /workshops/{id}/appointment-settings/exceptions - Exception exists: workshop_id=%d, date=%s",
				workshopID, req.Date)
			handlers.RespondConflict(w, msgExceptionExists)

		case errors.Is(err, settings.ErrWorkshopNotFound):
			h.logger.Warn("POST /workshops/{id}/appointment-settings/exceptions - Workshop not found: workshop_id=%d",
				workshopID)
			handlers.RespondNotFound(w, msgWorkshopNotFound)

		case errors.Is(err, settings.ErrAccessDenied):
			h.logger.Warn("POST /workshops/{id}/appointment-settings/exceptions - Access denied: workshop_id=%d, user_id=%d",
				workshopID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, settings.ErrTransient):
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("POST /workshops/{id}/appointment-settings/exceptions - Failed to add exception: workshop_id=%d, error=%v",
				workshopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /workshops/{id}/appointment-settings/exceptions - Exception added: workshop_id=%d, exception_id=%s",
		workshopID, resp.ID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}
