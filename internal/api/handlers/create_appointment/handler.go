package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-QuoteService/internal/api/handlers"
	"github.com/m04kA/SMC-QuoteService/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-QuoteService/internal/usecase/create_appointment"
)

const (
	msgInvalidWorkshopID  = "некорректный ID мастерской"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректная дата (YYYY-MM-DD) или время начала (HH:MM)"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequest     = "некорректные данные записи"
	msgWorkshopNotFound   = "мастерская не найдена"
	msgQuotationNotFound  = "запрос на расчёт не найден"
	msgForbidden          = "запрос на расчёт принадлежит другому клиенту"
	msgQuotationMismatch  = "в запросе на расчёт не принято предложение этой мастерской"
	msgSlotNotAvailable   = "выбранный слот недоступен"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/workshops/{workshopId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	workshopID, ok := handlers.PathInt64(r, "workshopId")
	if !ok {
		h.logger.Warn("POST /workshops/{id}/appointments - Invalid workshop ID")
		handlers.RespondBadRequest(w, msgInvalidWorkshopID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /workshops/{id}/appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /workshops/{id}/appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(workshopID, userID)
	if err != nil {
		h.logger.Warn("POST /workshops/{id}/appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var slotErr *createAppointment.SlotUnavailableError

		switch {
		case errors.As(err, &slotErr):
			h.logger.Warn("POST /workshops/{id}/appointments - Slot not available: workshop_id=%d, user_id=%d, code=%s",
				workshopID, userID, slotErr.Code)
			handlers.RespondErrorWithCode(w, http.StatusConflict, msgSlotNotAvailable, slotErr.Code)

		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /workshops/{id}/appointments - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, createAppointment.ErrWorkshopNotFound):
			h.logger.Warn("POST /workshops/{id}/appointments - Workshop not found: workshop_id=%d", workshopID)
			handlers.RespondNotFound(w, msgWorkshopNotFound)

		case errors.Is(err, createAppointment.ErrQuotationNotFound):
			h.logger.Warn("POST /workshops/{id}/appointments - Quotation not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgQuotationNotFound)

		case errors.Is(err, createAppointment.ErrAccessDenied):
			h.logger.Warn("POST /workshops/{id}/appointments - Access denied to quotation: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createAppointment.ErrQuotationMismatch):
			h.logger.Warn("POST /workshops/{id}/appointments - Quotation mismatch: workshop_id=%d, user_id=%d",
				workshopID, userID)
			handlers.RespondUnprocessable(w, msgQuotationMismatch)

		case errors.Is(err, createAppointment.ErrTransient):
			h.logger.Warn("POST /workshops/{id}/appointments - Temporary failure: workshop_id=%d, error=%v", workshopID, err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("POST /workshops/{id}/appointments - Failed to create appointment: workshop_id=%d, user_id=%d, error=%v",
				workshopID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /workshops/{id}/appointments - Appointment created: appointment_id=%d, workshop_id=%d, user_id=%d",
		result.ID, workshopID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
