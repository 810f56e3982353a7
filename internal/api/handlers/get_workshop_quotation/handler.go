package get_workshop_quotation

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-QuoteService/internal/api/handlers"
	"github.com/m04kA/SMC-QuoteService/internal/api/middleware"
	"github.com/m04kA/SMC-QuoteService/internal/service/quotations"
)

const (
	msgInvalidWorkshopID = "некорректный ID мастерской"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgNotFound          = "запрос на расчёт не найден"
	msgWorkshopNotFound  = "мастерская не найдена"
	msgForbidden         = "запрос не адресован этой мастерской"
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

// Handle GET /api/v1/workshops/{workshopId}/quotations/{quotationId}
// Открытие запроса мастерской отмечается как просмотр
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	workshopID, ok := handlers.PathInt64(r, "workshopId")
	if !ok {
		h.logger.Warn("GET /workshops/{id}/quotations/{id} - Invalid workshop ID")
		handlers.RespondBadRequest(w, msgInvalidWorkshopID)
		return
	}
	quotationID := mux.Vars(r)["quotationId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /workshops/{id}/quotations/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	resp, err := h.service.GetForWorkshop(r.Context(), quotationID, workshopID, userID)
	if err != nil {
		switch {
		case errors.Is(err, quotations.ErrQuotationNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, quotations.ErrWorkshopNotFound):
			handlers.RespondNotFound(w, msgWorkshopNotFound)

		case errors.Is(err, quotations.ErrAccessDenied):
			h.logger.Warn("GET /workshops/{id}/quotations/{id} - Access denied: quotation_id=%s, workshop_id=%d, user_id=%d",
				quotationID, workshopID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, quotations.ErrTransient):
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("GET /workshops/{id}/quotations/{id} - Failed to get quotation: quotation_id=%s, error=%v",
				quotationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
