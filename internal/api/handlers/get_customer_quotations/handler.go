package get_customer_quotations

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-QuoteService/internal/api/handlers"
	"github.com/m04kA/SMC-QuoteService/internal/api/middleware"
	"github.com/m04kA/SMC-QuoteService/internal/service/quotations"
)

const msgMissingUserID = "отсутствует ID пользователя"

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

// Handle GET /api/v1/quotations
// Запросы текущего клиента, новые первыми
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /quotations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	resp, err := h.service.ListByCustomer(r.Context(), userID)
	if err != nil {
		if errors.Is(err, quotations.ErrTransient) {
			handlers.RespondUnavailable(w)
			return
		}
		h.logger.Error("GET /quotations - Failed to list quotations: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /quotations - Quotations retrieved: user_id=%d, total=%d", userID, resp.Total)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
