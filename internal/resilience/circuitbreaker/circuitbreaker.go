// Package circuitbreaker wraps github.com/sony/gobreaker for the external
// metadata providers so that a provider that keeps failing is skipped
// quickly instead of being hammered for every title in a run.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"cineverse/internal/observability/metrics"
)

// ErrNotCounted marks errors that pass through the breaker without counting
// as failures, such as a search that matched nothing.
var ErrNotCounted = errors.New("not counted as circuit failure")

// Config sizes one breaker. The circuit opens once at least MinRequests
// calls were made in the current Interval and the failure ratio reaches
// FailureThreshold. After Timeout, MaxRequests probes are let through.
type Config struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// ProviderConfig returns the configuration used for metadata provider calls.
// Misses are not failures (see Execute), so only outages count toward tripping.
func ProviderConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      2,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.7,
		MinRequests:      10,
	}
}

// CircuitBreaker guards the calls to one provider. Its state is published
// as the provider_circuit_state gauge.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a closed breaker.
func New(cfg Config) *CircuitBreaker {
	metrics.SetProviderCircuitState(cfg.Name, stateValue(gobreaker.StateClosed))
	return &CircuitBreaker{
		name: cfg.Name,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        cfg.Name,
			MaxRequests: cfg.MaxRequests,
			Interval:    cfg.Interval,
			Timeout:     cfg.Timeout,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.Requests >= cfg.MinRequests &&
					float64(c.TotalFailures)/float64(c.Requests) >= cfg.FailureThreshold
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrNotCounted)
			},
			OnStateChange: onStateChange,
		}),
	}
}

func onStateChange(name string, from, to gobreaker.State) {
	metrics.SetProviderCircuitState(name, stateValue(to))
	level := slog.LevelWarn
	if to == gobreaker.StateClosed {
		level = slog.LevelInfo
	}
	slog.Log(context.Background(), level, "provider circuit state changed",
		slog.String("provider", name),
		slog.String("from", from.String()),
		slog.String("to", to.String()))
}

func stateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Execute runs fn through the breaker. When the circuit is open it returns
// immediately with an error for which IsOpen reports true.
func Execute[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	v, err := cb.breaker.Execute(func() (any, error) {
		return fn()
	})
	out, ok := v.(T)
	if !ok {
		var zero T
		return zero, err
	}
	return out, err
}

// IsOpen reports whether err was produced by a rejecting breaker.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Name returns the provider name the breaker guards.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}
