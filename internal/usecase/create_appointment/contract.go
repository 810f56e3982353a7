package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	"github.com/m04kA/SMC-QuoteService/internal/integrations/workshopservice"
	"github.com/m04kA/SMC-QuoteService/pkg/redislock"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	GetByWorkshopWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// SettingsProvider настройки записи мастерской (создаются лениво)
type SettingsProvider interface {
	Load(ctx context.Context, workshopID int64) (*domain.AppointmentSettings, error)
}

// QuotationReader чтение запроса на расчёт, к которому привязывается запись
type QuotationReader interface {
	GetByID(ctx context.Context, id string) (*domain.Quotation, error)
}

// WorkshopServiceClient интерфейс клиента для WorkshopService
type WorkshopServiceClient interface {
	GetWorkshop(ctx context.Context, workshopID int64) (*workshopservice.Workshop, error)
}

// Locker распределённая блокировка мастерская+день
type Locker interface {
	Acquire(ctx context.Context, key string) (redislock.ReleaseFunc, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
