// Package startup holds the boot-time plumbing run before the server
// accepts requests.
package startup

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/reeltv/reeltv/internal/metadata/tmdb"
)

// RetryConfig configures the exponential backoff retry behavior.
type RetryConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	MaxAttempts  int
	Multiplier   float64
}

// DefaultRetryConfig returns the backoff used for the TMDb connectivity check.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		InitialDelay: 2 * time.Second,
		MaxDelay:     time.Minute,
		MaxAttempts:  5,
		Multiplier:   2.0,
	}
}

var networkIndicators = []string{
	"connection refused",
	"no such host",
	"timeout",
	"network is unreachable",
	"no route to host",
	"host is down",
	"dial tcp",
	"i/o timeout",
	"connection reset",
	"temporary failure in name resolution",
}

// IsRetryable reports whether err is worth another attempt: network
// unavailability or TMDb rate limiting.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, tmdb.ErrRateLimited) {
		return true
	}

	var netErr net.Error
	var dnsErr *net.DNSError
	if errors.As(err, &netErr) || errors.As(err, &dnsErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, indicator := range networkIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// WithRetry runs fn with exponential backoff. Only retryable errors are
// retried; anything else is returned at once.
func WithRetry(ctx context.Context, name string, cfg RetryConfig, fn func(ctx context.Context) error, logger zerolog.Logger) error {
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Info().Str("operation", name).Int("attempt", attempt).Msg("Operation succeeded after retry")
			}
			return nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		logger.Warn().
			Err(err).
			Str("operation", name).
			Int("attempt", attempt).
			Int("maxAttempts", cfg.MaxAttempts).
			Dur("nextRetryIn", delay).
			Msg("Retryable error, waiting")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	logger.Error().Err(lastErr).Str("operation", name).Int("attempts", cfg.MaxAttempts).
		Msg("Operation failed after all retries")
	return lastErr
}

// Tester is a remote that can check its own connectivity.
type Tester interface {
	Name() string
	Test(ctx context.Context) error
}

// CheckRemote verifies the remote catalog is reachable. A failure is
// logged and returned; the caller decides whether to keep running offline.
func CheckRemote(ctx context.Context, remote Tester, cfg RetryConfig, logger zerolog.Logger) error {
	err := WithRetry(ctx, remote.Name()+" connectivity", cfg, remote.Test, logger)
	if err != nil {
		logger.Warn().Err(err).Str("remote", remote.Name()).Msg("Remote catalog unreachable")
		return err
	}
	logger.Info().Str("remote", remote.Name()).Msg("Remote catalog reachable")
	return nil
}
