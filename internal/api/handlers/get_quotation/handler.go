package get_quotation

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

// Handle GET /api/v1/quotations/{quotationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	quotationID := mux.Vars(r)["quotationId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /quotations/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	resp, err := h.service.GetByID(r.Context(), quotationID, userID)
	if err != nil {
		switch {
		case errors.Is(err, quotations.ErrQuotationNotFound):
			h.logger.Warn("GET /quotations/{id} - Quotation not found: quotation_id=%s", quotationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, quotations.ErrAccessDenied):
			h.logger.Warn("GET /quotations/{id} - Access denied: quotation_id=%s, user_id=%d", quotationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, quotations.ErrTransient):
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("GET /quotations/{id} - Failed to get quotation: quotation_id=%s, error=%v", quotationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
