package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Logger      *Logger
}

func (r *RetryConfig) backOff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.BaseDelay
	bo.Multiplier = 2
	if r.MaxDelay > 0 {
		bo.MaxInterval = r.MaxDelay
	}
	return bo
}

// Do executes fn with exponential back-off, at most MaxAttempts times. It
// stops early when ctx is done.
func (r *RetryConfig) Do(ctx context.Context, operationName string, fn func() error) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	tries := 0
	_, err := backoff.Retry(ctx,
		func() (struct{}, error) {
			tries++
			return struct{}{}, fn()
		},
		backoff.WithBackOff(r.backOff()),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			if r.Logger != nil {
				r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v, retrying in %v",
					operationName, tries, attempts, err, next.Round(time.Millisecond))
			}
		}),
	)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return fmt.Errorf("%s abandoned after %d attempts: %w", operationName, tries, ctxErr)
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operationName, tries, err)
}
