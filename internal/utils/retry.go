package utils

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"
)

// RetryConfig holds the configuration for the retry mechanism.
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	Timeout         time.Duration
	RetryableErrors []string
}

// RetryableFunc defines the signature for operations that can be retried.
type RetryableFunc[T any] func(ctx context.Context) (T, error)

// FetchRetryConfig returns the policy used around a whole recipe fetch:
// immediate re-attempts with no backoff and no jitter, regardless of error.
func FetchRetryConfig(maxAttempts int) RetryConfig {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return RetryConfig{
		MaxAttempts: maxAttempts,
	}
}

// EmbeddingRetryConfig returns a RetryConfig for embedding calls made while
// ingesting documents, where rate limits are common.
func EmbeddingRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   4,
		InitialDelay:  500 * time.Millisecond,
		MaxDelay:      8 * time.Second,
		BackoffFactor: 2.0,
		Timeout:       60 * time.Second,
		RetryableErrors: []string{
			"timeout",
			"connection reset",
			"rate limit",
			"429",
			"connection refused",
			"5", // covers 5xx status codes
		},
	}
}

// IsRetryableError checks if the given error is retryable based on defined patterns.
// An empty pattern list treats every error as retryable.
func IsRetryableError(err error, patterns []string) bool {
	if err == nil {
		return false
	}
	if len(patterns) == 0 {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	for _, pattern := range patterns {
		if strings.Contains(errMsg, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// WithRetry executes the given operation with retries based on the provided config.
func WithRetry[T any](ctx context.Context, operation RetryableFunc[T], config RetryConfig) (T, error) {
	var lastErr error
	var zero T

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		// Create a context with timeout for this specific attempt
		attemptCtx, cancel := attemptContext(ctx, config.Timeout)

		result, err := operation(attemptCtx)
		cancel() // Release resources as soon as operation is done

		if err == nil {
			return result, nil
		}

		lastErr = err

		// If this was the last attempt, don't wait or check retryability
		if attempt == config.MaxAttempts {
			break
		}

		// Check if the error is retryable
		if !IsRetryableError(err, config.RetryableErrors) {
			break
		}

		delay := backoffDelay(config, attempt)
		if delay <= 0 {
			if err := ctx.Err(); err != nil {
				return zero, err
			}
			continue
		}

		// Wait for the delay or context cancellation
		select {
		case <-time.After(delay):
			// Continue to next attempt
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}

func attemptContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func backoffDelay(config RetryConfig, attempt int) time.Duration {
	if config.InitialDelay <= 0 {
		return 0
	}

	// Calculate backoff delay: InitialDelay * (BackoffFactor ^ (attempt - 1))
	factor := config.BackoffFactor
	if factor <= 0 {
		factor = 1
	}
	delay := time.Duration(float64(config.InitialDelay) * math.Pow(factor, float64(attempt-1)))

	if config.MaxDelay > 0 && delay > config.MaxDelay {
		delay = config.MaxDelay
	}

	// Add jitter (up to 10% of the delay)
	jitterRange := int64(delay) / 10
	if jitterRange > 0 {
		delay += time.Duration(rand.Int63n(jitterRange))
	}

	return delay
}
