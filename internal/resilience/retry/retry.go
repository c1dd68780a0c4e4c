// Package retry retries transient database failures with exponential
// backoff and jitter. Provider lookups never retry; a failed lookup degrades
// to its default value instead.
package retry

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"cineverse/internal/observability/logging"
	"cineverse/internal/observability/metrics"
)

// Config is an exponential backoff policy. The n-th retry waits
// InitialDelay*Multiplier^(n-1), capped at MaxDelay, plus up to
// JitterFraction of that delay.
type Config struct {
	MaxAttempts    int // including the first
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	Multiplier     float64
	JitterFraction float64 // 0.0 to 1.0
}

// DBConfig returns the policy for snapshot and catalog writes: three quick
// attempts, enough to ride out a dropped pooled connection.
func DBConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   100 * time.Millisecond,
		MaxDelay:       time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// backoff returns the un-jittered wait before retry n (n >= 1).
func (c Config) backoff(n int) time.Duration {
	d := float64(c.InitialDelay)
	for i := 1; i < n; i++ {
		d *= c.Multiplier
		if d >= float64(c.MaxDelay) {
			return c.MaxDelay
		}
	}
	return min(time.Duration(d), c.MaxDelay)
}

func (c Config) jitter(d time.Duration) time.Duration {
	f := min(c.JitterFraction, 1.0)
	if f <= 0 || d <= 0 {
		return d
	}
	// #nosec G404 -- jitter does not need cryptographic randomness
	return d + time.Duration(rand.Float64()*f*float64(d))
}

// WithBackoff calls fn until it succeeds, returns a non-retryable error, or
// MaxAttempts is reached. A non-retryable error is returned unwrapped.
// Attempts are logged with the logger carried by ctx.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	logger := logging.FromContext(ctx)

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			if attempt > 1 {
				metrics.RecordDBRetry("recovered")
				logger.Info("operation succeeded after retry", slog.Int("attempt", attempt))
			}
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if attempt >= cfg.MaxAttempts {
			break
		}

		wait := cfg.jitter(cfg.backoff(attempt))
		logger.Warn("operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", wait),
			slog.Any("error", err))

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			metrics.RecordDBRetry("aborted")
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}
	}

	metrics.RecordDBRetry("exhausted")
	return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, err)
}

// IsRetryable reports whether err is a transient connection or transaction
// conflict worth another attempt. Context errors never are.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, driver.ErrBadConn):
		return true
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ETIMEDOUT), errors.Is(err, syscall.ENETUNREACH):
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 08: connection exception
		return pgErr.Code[:min(2, len(pgErr.Code))] == "08" ||
			pgErr.Code == "40001" || pgErr.Code == "40P01" || pgErr.Code == "57P01"
	}
	return pgconn.SafeToRetry(err)
}
