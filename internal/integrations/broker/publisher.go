package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-QuoteService/internal/domain"
)

// DefaultQueue очередь уведомлений по предложениям
const DefaultQueue = "quote.notifications"

// Publisher публикует уведомления в RabbitMQ
// Соединение открывается на каждую пачку: публикация редкая, держать канал открытым незачем
type Publisher struct {
	url   string
	queue string
	log   Logger
}

// NewPublisher создает publisher для указанной очереди
func NewPublisher(url, queue string, log Logger) *Publisher {
	if queue == "" {
		queue = DefaultQueue
	}
	return &Publisher{url: url, queue: queue, log: log}
}

// Publish отправляет уведомления в очередь
// Возвращает ID успешно отправленных уведомлений; при ошибке отправка прерывается,
// неотправленные остаются в outbox и будут повторены
func (p *Publisher) Publish(ctx context.Context, notifications []domain.Notification) ([]string, error) {
	if len(notifications) == 0 {
		return nil, nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrConnect, err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}
	defer func() { _ = ch.Close() }()

	// Объявление идемпотентно, durable - сообщения переживают рестарт брокера
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("%w: declare queue %s: %v", ErrConnect, p.queue, err)
	}

	published := make([]string, 0, len(notifications))
	for _, n := range notifications {
		msg, err := buildPublishing(n, time.Now().UTC())
		if err != nil {
			p.log.Error("Publish: failed to encode notification id=%s: %v", n.ID, err)
			continue
		}

		if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
			return published, fmt.Errorf("%w: notification id=%s: %v", ErrPublish, n.ID, err)
		}
		published = append(published, n.ID)
	}

	p.log.Info("Publish: sent %d notifications to queue=%s", len(published), p.queue)
	return published, nil
}

func buildPublishing(n domain.Notification, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(n)
	if err != nil {
		return amqp.Publishing{}, err
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    n.ID,
		Type:         string(n.Type),
		Timestamp:    now,
		Body:         body,
	}, nil
}

// NopPublisher используется, когда RabbitMQ не настроен
// Уведомления остаются в outbox и читаются через API
type NopPublisher struct{}

// Publish ничего не отправляет
func (NopPublisher) Publish(context.Context, []domain.Notification) ([]string, error) {
	return nil, nil
}
