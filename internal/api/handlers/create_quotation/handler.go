package create_quotation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-QuoteService/internal/api/handlers"
	"github.com/m04kA/SMC-QuoteService/internal/api/middleware"
	"github.com/m04kA/SMC-QuoteService/internal/service/quotations"
	"github.com/m04kA/SMC-QuoteService/internal/service/quotations/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidQuotation   = "некорректный запрос на расчёт: нужен автомобиль и хотя бы одна мастерская без повторов"
	msgCarNotFound        = "автомобиль не найден"
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

// Handle POST /api/v1/quotations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /quotations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateQuotationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /quotations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.CustomerID = userID

	resp, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, quotations.ErrInvalidInput):
			h.logger.Warn("POST /quotations - Invalid quotation: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidQuotation)

		case errors.Is(err, quotations.ErrCarNotFound):
			h.logger.Warn("POST /quotations - Car not found: user_id=%d, car_id=%d", userID, req.CarID)
			handlers.RespondNotFound(w, msgCarNotFound)

		case errors.Is(err, quotations.ErrTransient):
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("POST /quotations - Failed to create quotation: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /quotations - Quotation created: quotation_id=%s, user_id=%d, targets=%d",
		resp.ID, userID, len(resp.TargetWorkshopIDs))
	handlers.RespondJSON(w, http.StatusCreated, resp)
}
