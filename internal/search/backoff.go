package search

import (
	"context"
	"time"
)

// BackoffPolicy bounds retries with exponential delays. Sleep is injectable
// so tests can run against a fake clock.
type BackoffPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Sleep       func(ctx context.Context, d time.Duration) error
}

func NewBackoffPolicy(maxAttempts int, baseDelay time.Duration) BackoffPolicy {
	return BackoffPolicy{MaxAttempts: maxAttempts, BaseDelay: baseDelay, Sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Retry runs fn up to MaxAttempts times, sleeping base * 2^k before retry
// k+1, but only while retryable reports the error as transient. The last
// error is returned once attempts are exhausted.
func (b BackoffPolicy) Retry(ctx context.Context, fn func() error, retryable func(error) bool) error {
	var lastErr error
	for attempt := 0; attempt < b.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil || !retryable(lastErr) {
			return lastErr
		}
		if attempt < b.MaxAttempts-1 {
			if err := b.Sleep(ctx, b.BaseDelay*time.Duration(1<<attempt)); err != nil {
				return err
			}
		}
	}
	return lastErr
}
