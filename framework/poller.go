package framework

import (
	"context"
	"fmt"
	"time"
)

// MinPollInterval is the smallest delay between predicate attempts. Waits
// configured below it are clamped so a misconfigured spec cannot busy-spin.
const MinPollInterval = 20 * time.Millisecond

// DefaultPollInterval is used when a wait does not specify its own interval.
const DefaultPollInterval = 100 * time.Millisecond

// WaitFor repeatedly invokes predicate until it succeeds, the timeout
// elapses, or ctx is canceled. Predicate errors are treated as transient:
// they are swallowed and polling continues, but the most recent one is
// carried inside the eventual TimeoutError for diagnostics.
//
// The predicate is always attempted at least once, even when timeout is zero
// or already exhausted, so very short budgets cannot produce a false
// negative without ever looking at the condition.
//
// Cancellation of ctx (the owning session closing, or an operator interrupt)
// is checked on every iteration and fails fast with ErrSessionClosed rather
// than waiting out the remaining budget.
func WaitFor[T any](ctx context.Context, timeout, interval time.Duration, predicate func(context.Context) (T, error)) (T, error) {
	var zero T
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if interval < MinPollInterval {
		interval = MinPollInterval
	}
	deadline := time.Now().Add(timeout)

	var lastErr error
	for {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("%w while waiting: %s", ErrSessionClosed, err)
		}
		v, err := predicate(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !time.Now().Before(deadline) {
			return zero, &TimeoutError{Budget: timeout, LastErr: lastErr}
		}
		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("%w while waiting: %s", ErrSessionClosed, ctx.Err())
		case <-time.After(interval):
		}
	}
}
