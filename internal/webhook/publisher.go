package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/crisis_dispatch_system/internal/bus"
)

const webhookQueueKey = "dispatch_events"

// Publisher - интерфейс для публикации событий диспетчеризации во внешнюю очередь
type Publisher interface {
	Publish(ctx context.Context, event bus.Event) error
}

// RedisPublisher - реализация Publisher, использующая Redis
type RedisPublisher struct {
	redisClient *redis.Client
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
	}
}

// Publish публикует событие в очередь Redis
func (p *RedisPublisher) Publish(ctx context.Context, event bus.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch event: %w", err)
	}

	// Используем LPUSH для добавления события в левую часть списка (очереди)
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish dispatch event to Redis: %w", err)
	}
	return nil
}

// StartMirror подписывается на шину и зеркалирует каждое событие в очередь
// вебхуков. Внешний потребитель (долговременное хранилище, нотификации)
// получает тот же поток, что и websocket-наблюдатели, не подключаясь к шине.
func StartMirror(ctx context.Context, eventBus *bus.Bus, publisher Publisher, logger *logrus.Logger) {
	sub := eventBus.Subscribe()

	go func() {
		defer eventBus.Unsubscribe(sub.ID)
		for {
			select {
			case <-ctx.Done():
				logger.Info("Stopping webhook mirror.")
				return
			case <-sub.Done:
				logger.Warn("Webhook mirror dropped from the bus.")
				return
			case event := <-sub.Events:
				if err := publisher.Publish(ctx, event); err != nil {
					logger.WithError(err).WithField("event", event.Event).Error("Failed to mirror event to webhook queue")
				}
			}
		}
	}()
}
