package get_customer_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-QuoteService/internal/api/handlers"
	"github.com/m04kA/SMC-QuoteService/internal/api/middleware"
	"github.com/m04kA/SMC-QuoteService/internal/service/appointments"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "можно просматривать только свои записи"
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

// Handle GET /api/v1/users/{userId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	pathUserID, ok := handlers.PathInt64(r, "userId")
	if !ok {
		h.logger.Warn("GET /users/{id}/appointments - Invalid user ID")
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /users/{id}/appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if pathUserID != userID {
		h.logger.Warn("GET /users/{id}/appointments - Access denied: path_user_id=%d, user_id=%d", pathUserID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	resp, err := h.service.ListByCustomer(r.Context(), userID)
	if err != nil {
		if errors.Is(err, appointments.ErrTransient) {
			handlers.RespondUnavailable(w)
			return
		}
		h.logger.Error("GET /users/{id}/appointments - Failed to list appointments: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /users/{id}/appointments - Appointments retrieved: user_id=%d, total=%d", userID, resp.Total)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
