package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

// Handler синхронный подписчик на событие
type Handler func(ctx context.Context, event Event) error

// Sink асинхронный получатель всех событий (очередь уведомлений, широковещательный канал)
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Bus - внутрипроцессная шина событий
type Bus struct {
	mu          sync.RWMutex
	handlers    map[Name][]Handler
	sinks       []Sink
	logger      *logrus.Logger
	sinkTimeout time.Duration
	wg          conc.WaitGroup
}

// NewBus создает новую шину событий
func NewBus(logger *logrus.Logger, sinkTimeout time.Duration) *Bus {
	if sinkTimeout <= 0 {
		sinkTimeout = 5 * time.Second
	}
	return &Bus{
		handlers:    make(map[Name][]Handler),
		logger:      logger,
		sinkTimeout: sinkTimeout,
	}
}

// Subscribe регистрирует синхронный обработчик события
func (b *Bus) Subscribe(name Name, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], handler)
}

// AddSink регистрирует асинхронного получателя
func (b *Bus) AddSink(sink Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, sink)
}

// Publish вызывает обработчики по порядку регистрации и отправляет событие в sink'и в фоне.
// Ошибки обработчиков объединяются; ошибки sink'ов только логируются.
// Обработчики и sink'и не наследуют отмену ctx: изменение к этому моменту уже зафиксировано.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Name]...)
	sinks := append([]Sink(nil), b.sinks...)
	b.mu.RUnlock()

	detached := context.WithoutCancel(ctx)

	var errs []error
	for _, h := range handlers {
		if err := h(detached, event); err != nil {
			errs = append(errs, fmt.Errorf("handler for %s: %w", event.Name, err))
		}
	}

	for _, sink := range sinks {
		b.wg.Go(func() {
			sinkCtx, cancel := context.WithTimeout(detached, b.sinkTimeout)
			defer cancel()
			if err := sink.Publish(sinkCtx, event); err != nil {
				b.logger.WithError(err).WithFields(logrus.Fields{
					"event":    event.Name,
					"event_id": event.ID,
					"issue_id": event.IssueID,
				}).Warn("Failed to deliver event to sink")
			}
		})
	}

	return errors.Join(errs...)
}

// Close ждет завершения фоновых отправок
func (b *Bus) Close() {
	b.wg.Wait()
}
