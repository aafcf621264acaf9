package retry

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Do runs op up to maxAttempts times, sleeping baseDelay * 2^(attempt-1)
// between attempts. If the context is canceled the wait is abandoned and
// ctx.Err() returned. On final failure the last error is wrapped with the
// label and attempt count. Nothing is cached between attempts.
func Do[T any](ctx context.Context, label string, maxAttempts int, baseDelay time.Duration, op func(context.Context) (T, error)) (T, error) {
	var zero T
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	var last error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		last = err
		log.Printf("retry: %s attempt %d/%d failed: %v", label, attempt, maxAttempts, err)
		if attempt == maxAttempts {
			break
		}
		wait := baseDelay * time.Duration(1<<(attempt-1))
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(wait):
		}
	}
	return zero, fmt.Errorf("%s failed after %d attempts: %w", label, maxAttempts, last)
}
