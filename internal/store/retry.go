package store

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/mattn/go-sqlite3"
)

// RetryConfig defines how writes are retried when the database is busy.
type RetryConfig struct {
	MaxAttempts       int           `json:"max_attempts"`
	InitialDelay      time.Duration `json:"initial_delay"`
	MaxDelay          time.Duration `json:"max_delay"`
	BackoffMultiplier float64       `json:"backoff_multiplier"`
	Jitter            bool          `json:"jitter"`
}

// DefaultRetryConfig is used by Open.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:       4,
	InitialDelay:      20 * time.Millisecond,
	MaxDelay:          500 * time.Millisecond,
	BackoffMultiplier: 2.0,
	Jitter:            true,
}

// isRetryableError reports whether err is a transient sqlite lock.
func isRetryableError(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}

// retryDelay returns the wait before the given attempt (1-based).
func retryDelay(config RetryConfig, attempt int) time.Duration {
	// Calculate delay with exponential backoff
	delay := time.Duration(float64(config.InitialDelay) * math.Pow(config.BackoffMultiplier, float64(attempt-1)))

	// Cap at max delay
	if delay > config.MaxDelay {
		delay = config.MaxDelay
	}

	// +/-10%
	if config.Jitter && delay > 0 {
		delay += time.Duration(float64(delay) * 0.2 * (rand.Float64() - 0.5))
	}
	return delay
}

// withRetry runs op until it succeeds, fails with a non-retryable error,
// runs out of attempts or ctx is done.
func withRetry(ctx context.Context, config RetryConfig, op func() error) error {
	attempts := max(config.MaxAttempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(); err == nil || !isRetryableError(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		timer := time.NewTimer(retryDelay(config, attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}
	return err
}
