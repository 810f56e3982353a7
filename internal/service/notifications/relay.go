package notifications

import (
	"context"
	"time"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
)

// OutboxRepository чтение и отметка неотправленных уведомлений
type OutboxRepository interface {
	ListUnpublished(ctx context.Context, limit uint64) ([]domain.Notification, error)
	MarkPublished(ctx context.Context, ids []string, at time.Time) error
}

// Publisher отправка уведомлений во внешний брокер
type Publisher interface {
	Publish(ctx context.Context, notifications []domain.Notification) ([]string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

const (
	defaultRelayInterval = 30 * time.Second
	defaultRelayBatch    = 100
	maxRelayBackoff      = 5 * time.Minute
)

// Relay досылает уведомления, которые не ушли сразу после коммита
type Relay struct {
	repo      OutboxRepository
	publisher Publisher
	interval  time.Duration
	batch     uint64
	log       Logger
}

// NewRelay создает relay; нулевые interval/batch заменяются дефолтами
func NewRelay(repo OutboxRepository, publisher Publisher, interval time.Duration, batch uint64, log Logger) *Relay {
	if interval <= 0 {
		interval = defaultRelayInterval
	}
	if batch == 0 {
		batch = defaultRelayBatch
	}
	return &Relay{repo: repo, publisher: publisher, interval: interval, batch: batch, log: log}
}

// Run крутит цикл до отмены контекста
// При ошибках интервал удваивается до maxRelayBackoff и сбрасывается после успешного прохода
func (r *Relay) Run(ctx context.Context) {
	r.log.Info("Relay: started, interval=%s, batch=%d", r.interval, r.batch)

	wait := r.interval
	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Relay: stopped")
			return
		case <-timer.C:
		}

		if _, err := r.Flush(ctx); err != nil {
			wait = nextBackoff(wait)
			r.log.Warn("Relay: flush failed, retrying in %s: %v", wait, err)
		} else {
			wait = r.interval
		}
		timer.Reset(wait)
	}
}

// nextBackoff удваивает паузу, не выходя за maxRelayBackoff
func nextBackoff(wait time.Duration) time.Duration {
	return min(wait*2, maxRelayBackoff)
}

// Flush отправляет одну пачку неотправленных уведомлений
// Возвращает количество отправленных
func (r *Relay) Flush(ctx context.Context) (int, error) {
	pending, err := r.repo.ListUnpublished(ctx, r.batch)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	ids, publishErr := r.publisher.Publish(ctx, pending)
	if len(ids) > 0 {
		if err := r.repo.MarkPublished(ctx, ids, time.Now().UTC()); err != nil {
			return 0, err
		}
		r.log.Info("Relay: published %d of %d pending notifications", len(ids), len(pending))
	}

	return len(ids), publishErr
}
