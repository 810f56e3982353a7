package cancel_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-QuoteService/internal/api/handlers"
	"github.com/m04kA/SMC-QuoteService/internal/api/middleware"
	"github.com/m04kA/SMC-QuoteService/internal/service/appointments"
	"github.com/m04kA/SMC-QuoteService/internal/service/appointments/models"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidReason        = "слишком длинная причина отмены"
	msgNotFound             = "запись не найдена"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgForbidden            = "доступ запрещен"
	msgCannotCancel         = "запись нельзя отменить: она уже неактивна или срок отмены прошёл"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/cancel
// Тело необязательно: {"reason": "..."}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := handlers.PathInt64(r, "appointmentId")
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid appointment ID")
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CancelAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	if err := h.service.Cancel(r.Context(), appointmentID, &req); err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidReason)

		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied), errors.Is(err, appointments.ErrWorkshopNotFound):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Access denied: appointment_id=%d, user_id=%d",
				appointmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrCannotCancel):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Cannot cancel: appointment_id=%d, user_id=%d",
				appointmentID, userID)
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, appointments.ErrTransient):
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("PATCH /appointments/{id}/cancel - Failed to cancel appointment: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/cancel - Appointment cancelled: appointment_id=%d, user_id=%d",
		appointmentID, userID)
	w.WriteHeader(http.StatusNoContent)
}
