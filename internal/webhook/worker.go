package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/civic_issue_tracker/internal/config"
	"github.com/shenikar/civic_issue_tracker/internal/events"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"golang.org/x/sync/semaphore"
)

const (
	// popTimeout ограничивает BRPOP, чтобы цикл замечал остановку
	popTimeout = time.Second
	// requeueTimeout ограничивает возврат события в очередь при остановке
	requeueTimeout = 5 * time.Second
	// notifyBudget запас на создание уведомления сверх доставки вебхука
	notifyBudget = 5 * time.Second
)

// Notifier превращает событие в уведомления пользователей
type Notifier interface {
	NotifyFromEvent(ctx context.Context, event events.Event) ([]*models.Notification, error)
}

// WebhookWorker - обработчик очереди событий: уведомления и доставка вебхуков
type WebhookWorker struct {
	redisClient *redis.Client
	notifier    Notifier
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
	sem         *semaphore.Weighted
	wg          conc.WaitGroup

	// processTimeout - верхняя граница обработки одного события, в том числе после остановки
	processTimeout time.Duration
}

// NewWebhookWorker создает новый WebhookWorker
func NewWebhookWorker(redisClient *redis.Client, notifier Notifier, logger *logrus.Logger, cfg *config.Config) *WebhookWorker {
	concurrency := cfg.WebhookConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	attempts := max(cfg.WebhookMaxRetries, 1)
	// таймауты всех попыток плюс экспоненциальные паузы между ними
	deliveryBudget := cfg.WebhookTimeout*time.Duration(attempts) + cfg.WebhookBaseDelay*time.Duration(1<<min(attempts, 16))
	return &WebhookWorker{
		redisClient: redisClient,
		notifier:    notifier,
		logger:      logger,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.WebhookTimeout,
		},
		sem:            semaphore.NewWeighted(concurrency),
		processTimeout: deliveryBudget + notifyBudget,
	}
}

// Start запускает цикл обработки очереди
func (w *WebhookWorker) Start(ctx context.Context) {
	w.logger.Info("Starting webhook worker...")
	w.wg.Go(func() { w.run(ctx) })
}

// Wait дожидается остановки цикла и завершения начатых доставок
func (w *WebhookWorker) Wait() {
	w.wg.Wait()
}

func (w *WebhookWorker) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			w.logger.Info("Stopping webhook worker.")
			return
		}

		// result[0] - ключ, result[1] - значение
		result, err := w.redisClient.BRPop(ctx, popTimeout, w.cfg.EventQueueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			w.logger.WithError(err).Error("Failed to pop event from Redis")
			select {
			case <-ctx.Done():
			case <-time.After(w.cfg.WebhookBaseDelay):
			}
			continue
		}

		payload := result[1]
		var event events.Event
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			w.logger.WithError(err).Error("Failed to unmarshal event from Redis")
			continue
		}

		w.dispatch(ctx, event, payload)
	}
}

// dispatch запускает обработку события. Начатая обработка не прерывается остановкой воркера,
// а событие, для которого не нашлось слота, возвращается в очередь.
func (w *WebhookWorker) dispatch(ctx context.Context, event events.Event, payload string) {
	if err := w.sem.Acquire(ctx, 1); err != nil {
		w.requeue(event, payload)
		return
	}
	w.wg.Go(func() {
		defer w.sem.Release(1)
		processCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.processTimeout)
		defer cancel()
		w.processEvent(processCtx, event, payload)
	})
}

// requeue кладет событие обратно в хвост, из которого читает BRPOP
func (w *WebhookWorker) requeue(event events.Event, payload string) {
	ctx, cancel := context.WithTimeout(context.Background(), requeueTimeout)
	defer cancel()

	log := w.logger.WithFields(logrus.Fields{"event": event.Name, "event_id": event.ID})
	if err := w.redisClient.RPush(ctx, w.cfg.EventQueueKey, payload).Err(); err != nil {
		log.WithError(err).Error("Failed to return event to queue. Event dropped.")
		return
	}
	log.Info("Worker is stopping. Event returned to queue.")
}

func (w *WebhookWorker) processEvent(ctx context.Context, event events.Event, rawPayload string) {
	log := w.logger.WithFields(logrus.Fields{
		"event":    event.Name,
		"event_id": event.ID,
		"issue_id": event.IssueID,
	})
	log.Debug("Processing event...")

	if created, err := w.notifier.NotifyFromEvent(ctx, event); err != nil {
		log.WithError(err).Error("Failed to create notification for event")
	} else if len(created) > 0 {
		log.WithField("notifications", len(created)).Debug("Notifications created")
	}

	if w.cfg.WebhookURL == "" {
		log.Debug("Webhook URL is not configured. Skipping webhook delivery.")
		return
	}
	if err := w.deliver(ctx, event.Name, rawPayload); err != nil {
		log.WithError(err).Errorf("Failed to deliver webhook after %d attempts.", w.cfg.WebhookMaxRetries)
		return
	}
	log.Info("Webhook delivered successfully.")
}

// deliver отправляет подписанный payload с экспоненциальными повторами
func (w *WebhookWorker) deliver(ctx context.Context, name events.Name, rawPayload string) error {
	attempts := w.cfg.WebhookMaxRetries
	if attempts < 1 {
		attempts = 1
	}
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(w.cfg.WebhookBaseDelay),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxElapsedTime(0),
	), uint64(attempts-1))

	return backoff.RetryNotify(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.WebhookURL, bytes.NewBufferString(rawPayload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create webhook request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Event-Name", string(name))

		// HMAC подпись, если WEBHOOK_SECRET задан
		if w.cfg.WebhookSecret != "" {
			req.Header.Set("X-Webhook-Signature", generateHMACSHA256(rawPayload, w.cfg.WebhookSecret))
		}

		resp, err := w.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to send webhook: %w", err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil
		case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
			return backoff.Permanent(fmt.Errorf("webhook rejected with status code %d", resp.StatusCode))
		default:
			return fmt.Errorf("webhook delivery failed with status code %d", resp.StatusCode)
		}
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		w.logger.WithError(err).Warnf("Webhook delivery failed. Retrying in %v.", next)
	})
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
