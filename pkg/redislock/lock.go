package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired возвращается, если блокировку не удалось получить за отведённое время
var ErrNotAcquired = errors.New("redislock: lock not acquired")

// releaseScript удаляет ключ только если он всё ещё принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// ReleaseFunc снимает блокировку
type ReleaseFunc func(ctx context.Context) error

// Locker распределённая блокировка на Redis (SET NX PX + освобождение по токену)
type Locker struct {
	client        redis.Cmdable
	ttl           time.Duration
	retryInterval time.Duration
	maxWait       time.Duration
}

// New создает Locker
func New(client redis.Cmdable, ttl, retryInterval, maxWait time.Duration) *Locker {
	return &Locker{
		client:        client,
		ttl:           ttl,
		retryInterval: retryInterval,
		maxWait:       maxWait,
	}
}

// Acquire пытается взять блокировку key, повторяя попытки до maxWait или отмены ctx
func (l *Locker) Acquire(ctx context.Context, key string) (ReleaseFunc, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.maxWait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redislock: setnx %s: %w", key, err)
		}
		if ok {
			return func(ctx context.Context) error {
				return releaseScript.Run(ctx, l.client, []string{key}, token).Err()
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrNotAcquired, key)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}
}

// NopLocker используется, когда Redis не настроен: сериализацию обеспечивает транзакция БД
type NopLocker struct{}

// Acquire всегда успешно
func (NopLocker) Acquire(ctx context.Context, key string) (ReleaseFunc, error) {
	return func(context.Context) error { return nil }, nil
}
