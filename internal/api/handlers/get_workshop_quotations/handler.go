package get_workshop_quotations

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-QuoteService/internal/api/handlers"
	"github.com/m04kA/SMC-QuoteService/internal/api/middleware"
	"github.com/m04kA/SMC-QuoteService/internal/service/quotations"
)

const (
	msgInvalidWorkshopID = "некорректный ID мастерской"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgWorkshopNotFound  = "мастерская не найдена"
	msgForbidden         = "только сотрудники мастерской могут просматривать входящие запросы"
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

// Handle GET /api/v1/workshops/{workshopId}/quotations
// Активные запросы, адресованные мастерской; чужие предложения скрыты
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	workshopID, ok := handlers.PathInt64(r, "workshopId")
	if !ok {
		h.logger.Warn("GET /workshops/{id}/quotations - Invalid workshop ID")
		handlers.RespondBadRequest(w, msgInvalidWorkshopID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /workshops/{id}/quotations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	resp, err := h.service.ListForWorkshop(r.Context(), workshopID, userID)
	if err != nil {
		switch {
		case errors.Is(err, quotations.ErrWorkshopNotFound):
			handlers.RespondNotFound(w, msgWorkshopNotFound)

		case errors.Is(err, quotations.ErrAccessDenied):
			h.logger.Warn("GET /workshops/{id}/quotations - Access denied: workshop_id=%d, user_id=%d", workshopID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, quotations.ErrTransient):
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("GET /workshops/{id}/quotations - Failed to list quotations: workshop_id=%d, error=%v",
				workshopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /workshops/{id}/quotations - Quotations retrieved: workshop_id=%d, total=%d", workshopID, resp.Total)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
