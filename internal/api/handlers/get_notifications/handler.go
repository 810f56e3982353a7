package get_notifications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-QuoteService/internal/api/handlers"
	"github.com/m04kA/SMC-QuoteService/internal/api/middleware"
	"github.com/m04kA/SMC-QuoteService/internal/service/quotations"
)

const (
	msgInvalidWorkshopID = "некорректный ID мастерской"
	msgInvalidLimit      = "некорректный limit"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgWorkshopNotFound  = "мастерская не найдена"
	msgForbidden         = "только сотрудники мастерской могут просматривать уведомления"
)

type Handler struct {
	service QuotationService
	logger  Logger
}

func NewHandler(service QuotationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/workshops/{workshopId}/notifications?limit=20
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	workshopID, ok := handlers.PathInt64(r, "workshopId")
	if !ok {
		h.logger.Warn("GET /workshops/{id}/notifications - Invalid workshop ID")
		handlers.RespondBadRequest(w, msgInvalidWorkshopID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /workshops/{id}/notifications - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var limit uint64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = parsed
	}

	resp, err := h.service.ListNotifications(r.Context(), workshopID, userID, limit)
	if err != nil {
		switch {
		case errors.Is(err, quotations.ErrWorkshopNotFound):
			handlers.RespondNotFound(w, msgWorkshopNotFound)

		case errors.Is(err, quotations.ErrAccessDenied):
			h.logger.Warn("GET /workshops/{id}/notifications - Access denied: workshop_id=%d, user_id=%d", workshopID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, quotations.ErrTransient):
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("GET /workshops/{id}/notifications - Failed to list notifications: workshop_id=%d, error=%v",
				workshopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
