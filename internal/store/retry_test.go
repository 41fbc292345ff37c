package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

var fastRetry = RetryConfig{
	MaxAttempts:       3,
	InitialDelay:      time.Millisecond,
	MaxDelay:          2 * time.Millisecond,
	BackoffMultiplier: 2.0,
}

func TestWithRetryRecoversFromBusy(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastRetry, func() error {
		calls++
		if calls < 3 {
			return sqlite3.Error{Code: sqlite3.ErrBusy}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryGivesUp(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastRetry, func() error {
		calls++
		return sqlite3.Error{Code: sqlite3.ErrLocked}
	})
	assert.True(t, isRetryableError(err))
	assert.Equal(t, 3, calls)
}

func TestWithRetryStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("no such table")
	calls := 0
	err := withRetry(context.Background(), fastRetry, func() error {
		calls++
		return permanent
	})
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestWithRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	slow := fastRetry
	slow.InitialDelay = time.Hour
	slow.MaxDelay = time.Hour
	err := withRetry(ctx, slow, func() error {
		return sqlite3.Error{Code: sqlite3.ErrBusy}
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryDelay(t *testing.T) {
	assert.Equal(t, time.Millisecond, retryDelay(fastRetry, 1))
	assert.Equal(t, 2*time.Millisecond, retryDelay(fastRetry, 2))
	assert.Equal(t, 2*time.Millisecond, retryDelay(fastRetry, 5))

	jittered := fastRetry
	jittered.Jitter = true
	d := retryDelay(jittered, 1)
	assert.InDelta(t, float64(time.Millisecond), float64(d), float64(time.Millisecond)/10+1)
}
