package estimate_duration

import (
	"context"

	"github.com/m04kA/SMC-QuoteService/internal/service/settings/models"
)

type SettingsService interface {
	EstimateDuration(ctx context.Context, workshopID int64, req *models.EstimateDurationRequest) (*models.DurationEstimateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
