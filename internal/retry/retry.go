// Package retry implements bounded fixed-delay retries for operations that
// race provider warm-up, such as resolving the current user right after a
// login has been persisted.
package retry

import (
	"context"
	"time"
)

// Do runs fn up to attempts times, sleeping delay between failures. It
// returns the first success, or the last error once attempts are exhausted.
// Context cancellation aborts the wait and returns the context error.
func Do[T any](ctx context.Context, attempts int, delay time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()

				return zero, ctx.Err()
			case <-timer.C:
			}
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return zero, lastErr
}
