// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

package itunes

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// RetryConfig defines retry behavior for search calls.
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	RetryableErrors []string
}

// DefaultRetryConfig returns the retry policy used against the live API.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  250 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2,
		RetryableErrors: []string{
			"timeout",
			"connection refused",
			"connection reset",
			"temporary failure",
			"eof",
		},
	}
}

// WithRetry runs fn with exponential backoff until it succeeds, returns a
// non-retryable error, runs out of attempts or ctx is done.
func WithRetry[T any](
	ctx context.Context,
	cfg RetryConfig,
	logger zerolog.Logger,
	operation string,
	fn func() (T, error),
) (T, error) {
	var (
		zero    T
		lastErr error
	)

	attempts := max(cfg.MaxAttempts, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn()
		if err == nil {
			if attempt > 1 {
				logger.Info().
					Str("operation", operation).
					Int("attempt", attempt).
					Msg("operation succeeded after retry")
			}

			return result, nil
		}

		lastErr = err

		if !isRetryable(err, cfg.RetryableErrors) {
			logger.Debug().
				Err(err).
				Str("operation", operation).
				Int("attempt", attempt).
				Msg("non-retryable error, aborting")

			return zero, err
		}

		if attempt == attempts {
			break
		}

		delay := calculateBackoff(attempt, cfg.InitialDelay, cfg.MaxDelay, cfg.BackoffFactor)

		logger.Warn().
			Err(err).
			Str("operation", operation).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Dur("retry_delay", delay).
			Msg("retrying operation after error")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()

			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, fmt.Errorf("operation failed after %d attempts: %w", attempts, lastErr)
}

// calculateBackoff computes the exponential delay with 10% jitter.
func calculateBackoff(attempt int, initial, ceiling time.Duration, factor float64) time.Duration {
	if factor < 1 {
		factor = 1
	}

	backoff := float64(initial) * math.Pow(factor, float64(attempt-1))
	if backoff > float64(ceiling) {
		backoff = float64(ceiling)
	}

	jitter := backoff * 0.1 * (2*rand.Float64() - 1) //nolint:gosec

	return time.Duration(backoff + jitter)
}

func isRetryable(err error, patterns []string) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests || statusErr.Code >= http.StatusInternalServerError
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range patterns {
		if strings.Contains(msg, strings.ToLower(pattern)) {
			return true
		}
	}

	return false
}
