package decline_quote

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-QuoteService/internal/api/handlers"
	"github.com/m04kA/SMC-QuoteService/internal/api/middleware"
	"github.com/m04kA/SMC-QuoteService/internal/service/quotations"
	"github.com/m04kA/SMC-QuoteService/internal/service/quotations/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "запрос на расчёт не найден"
	msgQuoteNotFound      = "предложение не найдено"
	msgForbidden          = "доступ запрещен"
	msgConflict           = "запрос уже завершён, истёк или был изменён, обновите данные"
	msgInvalidState       = "предложение уже принято или отклонено"
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

// Handle POST /api/v1/quotations/{quotationId}/quotes/{quoteId}/decline
// Тело необязательно: {"reason": "..."}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	quotationID, quoteID := vars["quotationId"], vars["quoteId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /quotations/{id}/quotes/{id}/decline - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.DeclineQuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("POST /quotations/{id}/quotes/{id}/decline - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.CustomerID = userID

	resp, err := h.service.DeclineQuote(r.Context(), quotationID, quoteID, &req)
	if err != nil {
		switch {
		case errors.Is(err, quotations.ErrQuotationNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, quotations.ErrQuoteNotFound):
			handlers.RespondNotFound(w, msgQuoteNotFound)

		case errors.Is(err, quotations.ErrAccessDenied):
			h.logger.Warn("POST /quotations/{id}/quotes/{id}/decline - Access denied: quotation_id=%s, user_id=%d",
				quotationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, quotations.ErrConflict):
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, quotations.ErrInvalidState):
			handlers.RespondUnprocessable(w, msgInvalidState)

		case errors.Is(err, quotations.ErrTransient):
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("POST /quotations/{id}/quotes/{id}/decline - Failed to decline quote: quotation_id=%s, quote_id=%s, error=%v",
				quotationID, quoteID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /quotations/{id}/quotes/{id}/decline - Quote declined: quotation_id=%s, quote_id=%s",
		quotationID, quoteID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
