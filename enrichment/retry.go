package enrichment

import (
	"context"
	"strings"
	"time"
)

const (
	// DefaultRetryAttempts is how often a failed call is retried.
	DefaultRetryAttempts = 3
	// DefaultRetryDelay is the initial backoff delay.
	DefaultRetryDelay = 500 * time.Millisecond
	// MaxRetryDelay caps the exponential backoff.
	MaxRetryDelay = 10 * time.Second
)

// RetryConfig tunes the retry policy around collaborator calls.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  DefaultRetryAttempts,
		InitialDelay: DefaultRetryDelay,
		MaxDelay:     MaxRetryDelay,
		Multiplier:   2.0,
	}
}

// RetryableFunc is one attempt of the wrapped operation.
type RetryableFunc func() error

// IsRetryableError reports whether the error is transient enough to retry.
// Malformed model output is not retryable: the same prompt tends to produce
// the same shape of garbage, and the failure is already recoverable.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	retryable := []string{
		"timeout",
		"connection",
		"temporary",
		"network",
		"deadline exceeded",
		"rate limit",
		"quota",
		"429",
		"503",
		"unavailable",
		"internal error",
	}
	for _, fragment := range retryable {
		if strings.Contains(errStr, fragment) {
			return true
		}
	}
	return false
}

// Retry runs fn with exponential backoff until it succeeds, exhausts the
// attempts, hits a non-retryable error, or the context is done.
func Retry(ctx context.Context, fn RetryableFunc, config RetryConfig) error {
	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryableError(err) {
			return err
		}

		if attempt < config.MaxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * config.Multiplier)
			if delay > config.MaxDelay {
				delay = config.MaxDelay
			}
		}
	}
	return lastErr
}
