package newsapi

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type retryConfig struct {
	maxAttempts int
	delay       time.Duration
}

// permanentError stops withRetry early.
type permanentError struct{ err error }

func (p permanentError) Error() string { return p.err.Error() }
func (p permanentError) Unwrap() error { return p.err }

func permanent(err error) error { return permanentError{err: err} }

// withRetry runs fn until it succeeds, returns a permanent error or the
// attempts run out. The delay grows linearly with the attempt number.
func withRetry(ctx context.Context, cfg retryConfig, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= cfg.maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		var perm permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err
		if attempt == cfg.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * cfg.delay):
		}
	}
	if cfg.maxAttempts > 1 {
		return fmt.Errorf("failed after %d attempts: %w", cfg.maxAttempts, lastErr)
	}
	return lastErr
}
