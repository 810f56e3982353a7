package settings

import (
	"context"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	"github.com/m04kA/SMC-QuoteService/internal/integrations/workshopservice"
)

// SettingsRepository интерфейс репозитория настроек записи
type SettingsRepository interface {
	GetByWorkshopID(ctx context.Context, workshopID int64) (*domain.AppointmentSettings, error)
	CreateIfNotExists(ctx context.Context, s *domain.AppointmentSettings) (*domain.AppointmentSettings, error)
	Update(ctx context.Context, s *domain.AppointmentSettings) error
}

// WorkshopServiceClient интерфейс клиента для WorkshopService
type WorkshopServiceClient interface {
	GetWorkshop(ctx context.Context, workshopID int64) (*workshopservice.Workshop, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
