package cancel_quotation

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-QuoteService/internal/api/handlers"
	"github.com/m04kA/SMC-QuoteService/internal/api/middleware"
	"github.com/m04kA/SMC-QuoteService/internal/service/quotations"
)

const (
	msgNotFound      = "запрос на расчёт не найден"
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
	msgConflict      = "запрос уже завершён и не может быть отменён"
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

// Handle PATCH /api/v1/quotations/{quotationId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	quotationID := mux.Vars(r)["quotationId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /quotations/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Cancel(r.Context(), quotationID, userID); err != nil {
		switch {
		case errors.Is(err, quotations.ErrQuotationNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, quotations.ErrAccessDenied):
			h.logger.Warn("PATCH /quotations/{id}/cancel - Access denied: quotation_id=%s, user_id=%d", quotationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, quotations.ErrConflict), errors.Is(err, quotations.ErrInvalidState):
			h.logger.Warn("PATCH /quotations/{id}/cancel - Conflict: quotation_id=%s, error=%v", quotationID, err)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, quotations.ErrTransient):
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("PATCH /quotations/{id}/cancel - Failed to cancel quotation: quotation_id=%s, error=%v",
				quotationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /quotations/{id}/cancel - Quotation cancelled: quotation_id=%s, user_id=%d", quotationID, userID)
	w.WriteHeader(http.StatusNoContent)
}
