package get_workshop_appointments

import (
	"context"

	"github.com/m04kA/SMC-QuoteService/internal/service/appointments/models"
)

type AppointmentService interface {
	ListForWorkshop(ctx context.Context, req *models.WorkshopAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
