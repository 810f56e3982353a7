package accept_quote

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-QuoteService/internal/api/handlers"
	"github.com/m04kA/SMC-QuoteService/internal/api/middleware"
	"github.com/m04kA/SMC-QuoteService/internal/service/quotations"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgNotFound      = "запрос на расчёт не найден"
	msgQuoteNotFound = "предложение не найдено"
	msgForbidden     = "доступ запрещен"
	msgConflict      = "в запросе уже выбрано предложение, либо он истёк или отменён"
	msgInvalidState  = "принять можно только отправленное предложение"
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

// Handle POST /api/v1/quotations/{quotationId}/quotes/{quoteId}/accept
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	quotationID, quoteID := vars["quotationId"], vars["quoteId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /quotations/{id}/quotes/{id}/accept - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	resp, err := h.service.AcceptQuote(r.Context(), quotationID, quoteID, userID)
	if err != nil {
		switch {
		case errors.Is(err, quotations.ErrQuotationNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, quotations.ErrQuoteNotFound):
			handlers.RespondNotFound(w, msgQuoteNotFound)

		case errors.Is(err, quotations.ErrAccessDenied):
			h.logger.Warn("POST /quotations/{id}/quotes/{id}/accept - Access denied: quotation_id=%s, user_id=%d",
				quotationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, quotations.ErrConflict):
			h.logger.Warn("POST /quotations/{id}/quotes/{id}/accept - Conflict: quotation_id=%s, quote_id=%s",
				quotationID, quoteID)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, quotations.ErrInvalidState):
			handlers.RespondUnprocessable(w, msgInvalidState)

		case errors.Is(err, quotations.ErrTransient):
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("POST /quotations/{id}/quotes/{id}/accept - Failed to accept quote: quotation_id=%s, quote_id=%s, error=%v",
				quotationID, quoteID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /quotations/{id}/quotes/{id}/accept - Quote accepted: quotation_id=%s, quote_id=%s, notifications=%d",
		quotationID, quoteID, resp.NotificationsSent)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
