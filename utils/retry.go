package utils

import (
	"context"
	"fmt"
	"time"
)

// RetryOperation is a function that returns an error
type RetryOperation func() error

// RetryWithBackoff retries an operation with exponential backoff
// maxRetries: maximum number of retries
// initialBackoff: starting delay
// maxBackoff: maximum delay cap
// It gives up early, returning the context error, once ctx is done.
func RetryWithBackoff(ctx context.Context, op RetryOperation, maxRetries int, initialBackoff time.Duration, maxBackoff time.Duration) error {
	backoff := initialBackoff
	var err error

	for i := 0; i <= maxRetries; i++ {
		err = op()
		if err == nil {
			return nil
		}

		if i == maxRetries {
			break
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("operation cancelled after %d attempts: %w", i+1, ctx.Err())
		case <-timer.C:
		}

		// Exponential increase
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	return fmt.Errorf("operation failed after %d retries: %w", maxRetries, err)
}
