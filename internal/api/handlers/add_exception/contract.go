package add_exception

import (
	"context"

	"github.com/m04kA/SMC-QuoteService/internal/service/settings/models"
)

type SettingsService interface {
	AddException(ctx context.Context, workshopID int64, req *models.AddExceptionRequest) (*models.ExceptionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
