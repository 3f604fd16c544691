package dbretry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	maxElapsedTime  = 10 * time.Second
	initialInterval = 20 * time.Millisecond
	maxInterval     = time.Second
	maxRetries      = uint64(5)
)

// ErrConflict конкурентное изменение; операцию можно повторить
var ErrConflict = errors.New("concurrent modification")

// Retryable решает, стоит ли повторять операцию после ошибки
type Retryable func(err error) bool

// PostgresRetryable повторяет конфликты сериализации и блокировок
func PostgresRetryable(err error) bool {
	if errors.Is(err, ErrConflict) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure,
			pgerrcode.DeadlockDetected,
			pgerrcode.LockNotAvailable:
			return true
		}
	}
	return false
}

// ConflictOnly повторяет только ErrConflict (оптимистичные блокировки)
func ConflictOnly(err error) bool {
	return errors.Is(err, ErrConflict)
}

// Operation выполняет операцию с экспоненциальными повторами.
// Неповторяемая ошибка возвращается без изменений.
func Operation[T any](ctx context.Context, retryable Retryable, operation func(context.Context) (T, error)) (T, error) {
	var result T
	var lastErr error

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(maxElapsedTime),
		backoff.WithInitialInterval(initialInterval),
		backoff.WithMaxInterval(maxInterval),
	), maxRetries)

	err := backoff.Retry(func() error {
		var err error
		result, err = operation(ctx)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			lastErr = err
			return err
		}
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		var zero T
		if lastErr != nil && errors.Is(err, lastErr) {
			return zero, fmt.Errorf("database operation failed after retries: %w", lastErr)
		}
		return zero, err
	}
	return result, nil
}

// NoResult то же, что Operation, для операций без результата
func NoResult(ctx context.Context, retryable Retryable, operation func(context.Context) error) error {
	_, err := Operation(ctx, retryable, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, operation(ctx)
	})
	return err
}
