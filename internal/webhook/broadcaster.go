package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/civic_issue_tracker/internal/events"
	"github.com/sirupsen/logrus"
)

// Broadcaster рассылает события всем экземплярам сервиса через Redis Pub/Sub
type Broadcaster struct {
	redisClient *redis.Client
	channel     string
	logger      *logrus.Logger
}

func NewBroadcaster(client *redis.Client, channel string, logger *logrus.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: client,
		channel:     channel,
		logger:      logger,
	}
}

// Publish отправляет событие в канал
func (b *Broadcaster) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := b.redisClient.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to broadcast event: %w", err)
	}
	return nil
}

// Subscribe возвращает поток событий; поток закрывается при отмене ctx
func (b *Broadcaster) Subscribe(ctx context.Context) (<-chan events.Event, error) {
	sub := b.redisClient.Subscribe(ctx, b.channel)
	// Ждем подтверждения подписки, чтобы не пропустить события
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	out := make(chan events.Event)
	go func() {
		defer close(out)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event events.Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.logger.WithError(err).Warn("Failed to decode broadcast event")
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
