package quotations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
	"github.com/m04kA/SMC-QuoteService/internal/integrations/userservice"
	"github.com/m04kA/SMC-QuoteService/internal/integrations/workshopservice"
)

// QuotationRepository интерфейс репозитория запросов
// Update - условная запись по version, при гонке возвращает ErrConflict
type QuotationRepository interface {
	Create(ctx context.Context, q *domain.Quotation) error
	GetByID(ctx context.Context, id string) (*domain.Quotation, error)
	Update(ctx context.Context, q *domain.Quotation) error
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Quotation, error)
	ListActiveForWorkshop(ctx context.Context, workshopID int64, now time.Time) ([]*domain.Quotation, error)
}

// NotificationRepository интерфейс outbox уведомлений
type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []domain.Notification) error
	MarkPublished(ctx context.Context, ids []string, at time.Time) error
	ListByWorkshop(ctx context.Context, workshopID int64, limit uint64) ([]domain.Notification, error)
}

// Publisher отправка уведомлений во внешний брокер
type Publisher interface {
	Publish(ctx context.Context, notifications []domain.Notification) ([]string, error)
}

// WorkshopServiceClient интерфейс клиента для WorkshopService
type WorkshopServiceClient interface {
	GetWorkshop(ctx context.Context, workshopID int64) (*workshopservice.Workshop, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetCarWithGracefulDegradation(ctx context.Context, userID, carID int64) (*userservice.Car, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder доменные счётчики
type MetricsRecorder interface {
	RecordQuoteSubmitted(kind string)
	RecordQuoteResolution(action, outcome string)
	RecordNotification(notificationType string)
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

// RealTimeProvider реальный провайдер времени
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
