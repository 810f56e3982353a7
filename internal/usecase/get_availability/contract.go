package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	"github.com/m04kA/SMC-QuoteService/internal/integrations/workshopservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByWorkshopWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// SettingsProvider настройки записи мастерской (создаются лениво)
type SettingsProvider interface {
	Load(ctx context.Context, workshopID int64) (*domain.AppointmentSettings, error)
}

// WorkshopServiceClient интерфейс клиента для WorkshopService
type WorkshopServiceClient interface {
	GetWorkshop(ctx context.Context, workshopID int64) (*workshopservice.Workshop, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
