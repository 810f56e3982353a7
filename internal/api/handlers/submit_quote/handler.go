package submit_quote

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
	msgInvalidQuote       = "некорректное предложение: сумма и длительность должны быть положительными"
	msgNotFound           = "запрос на расчёт не найден"
	msgWorkshopNotFound   = "мастерская не найдена"
	msgForbidden          = "мастерская не может отвечать на этот запрос"
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

// Handle POST /api/v1/quotations/{quotationId}/quotes
// Повторная отправка той же мастерской обновляет её предложение
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	quotationID := mux.Vars(r)["quotationId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /quotations/{id}/quotes - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.SubmitQuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /quotations/{id}/quotes - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	resp, err := h.service.SubmitQuote(r.Context(), quotationID, &req)
	if err != nil {
		switch {
		case errors.Is(err, quotations.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidQuote)

		case errors.Is(err, quotations.ErrQuotationNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, quotations.ErrWorkshopNotFound):
			handlers.RespondNotFound(w, msgWorkshopNotFound)

		case errors.Is(err, quotations.ErrAccessDenied):
			h.logger.Warn("POST /quotations/{id}/quotes - Access denied: quotation_id=%s, workshop_id=%d, user_id=%d",
				quotationID, req.WorkshopID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, quotations.ErrConflict):
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, quotations.ErrInvalidState):
			handlers.RespondUnprocessable(w, msgInvalidState)

		case errors.Is(err, quotations.ErrTransient):
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("POST /quotations/{id}/quotes - Failed to submit quote: quotation_id=%s, workshop_id=%d, error=%v",
				quotationID, req.WorkshopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}

	h.logger.Info("POST /quotations/{id}/quotes - Quote submitted: quotation_id=%s, quote_id=%s, created=%t",
		quotationID, resp.Quote.ID, resp.Created)
	handlers.RespondJSON(w, status, resp)
}
