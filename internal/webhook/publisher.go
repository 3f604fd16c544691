package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/civic_issue_tracker/internal/events"
)

// RedisEventQueue - получатель событий шины, складывающий их в очередь Redis для воркера
type RedisEventQueue struct {
	redisClient *redis.Client
	queueKey    string
}

// NewRedisEventQueue создает новую очередь событий
func NewRedisEventQueue(client *redis.Client, queueKey string) *RedisEventQueue {
	return &RedisEventQueue{
		redisClient: client,
		queueKey:    queueKey,
	}
}

// Publish публикует событие в очередь Redis
func (q *RedisEventQueue) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// LPUSH в голову списка, воркер забирает с хвоста через BRPOP
	if err := q.redisClient.LPush(ctx, q.queueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event to Redis: %w", err)
	}
	return nil
}
