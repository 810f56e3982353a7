package get_customer_appointments

import (
	"context"

	"github.com/m04kA/SMC-QuoteService/internal/service/appointments/models"
)

type AppointmentService interface {
	ListByCustomer(ctx context.Context, customerID int64) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
