package get_workshop_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-QuoteService/internal/api/handlers"
	"github.com/m04kA/SMC-QuoteService/internal/api/middleware"
	"github.com/m04kA/SMC-QuoteService/internal/service/appointments"
	"github.com/m04kA/SMC-QuoteService/internal/service/appointments/models"
)

const (
	msgInvalidWorkshopID = "некорректный ID мастерской"
	msgInvalidPeriod     = "некорректный период, ожидаются startDate и endDate в формате YYYY-MM-DD не длиннее 31 дня"
	msgInvalidFlag       = "некорректное значение includeInactive"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgWorkshopNotFound  = "мастерская не найдена"
	msgForbidden         = "только сотрудники мастерской могут просматривать её записи"
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

// Handle GET /api/v1/workshops/{workshopId}/appointments?startDate=2025-10-20&endDate=2025-10-26&includeInactive=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	workshopID, ok := handlers.PathInt64(r, "workshopId")
	if !ok {
		h.logger.Warn("GET /workshops/{id}/appointments - Invalid workshop ID")
		handlers.RespondBadRequest(w, msgInvalidWorkshopID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /workshops/{id}/appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	startDate, err := handlers.QueryDate(r, "startDate")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}
	endDate, err := handlers.QueryDate(r, "endDate")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	includeInactive := false
	if raw := r.URL.Query().Get("includeInactive"); raw != "" {
		if includeInactive, err = strconv.ParseBool(raw); err != nil {
			handlers.RespondBadRequest(w, msgInvalidFlag)
			return
		}
	}

	resp, err := h.service.ListForWorkshop(r.Context(), &models.WorkshopAppointmentsRequest{
		UserID:          userID,
		WorkshopID:      workshopID,
		StartDate:       startDate,
		EndDate:         endDate,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		case errors.Is(err, appointments.ErrWorkshopNotFound):
			h.logger.Warn("GET /workshops/{id}/appointments - Workshop not found: workshop_id=%d", workshopID)
			handlers.RespondNotFound(w, msgWorkshopNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /workshops/{id}/appointments - Access denied: workshop_id=%d, user_id=%d", workshopID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrTransient):
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("GET /workshops/{id}/appointments - Failed to list appointments: workshop_id=%d, error=%v",
				workshopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /workshops/{id}/appointments - Appointments retrieved: workshop_id=%d, total=%d",
		workshopID, resp.Total)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
