// Package config loads environment configuration with validation and
// fail-open fallback: an invalid value never stops a process, it is replaced
// by the default and reported as a warning.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadResult is the outcome of loading one environment value.
// Value is always usable: it holds the default when FallbackApplied is true.
type LoadResult[T any] struct {
	Value           T
	Warnings        []string
	FallbackApplied bool
}

// LoadEnvString returns the environment value or def when unset.
func LoadEnvString(envKey, def string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return def
}

// LoadEnvWithFallback loads a string value and validates it.
func LoadEnvWithFallback(envKey, def string, validator func(string) error) LoadResult[string] {
	return load(envKey, def, func(s string) (string, error) { return s, nil }, validator)
}

// LoadEnvDuration loads a duration such as "30s" or "5m".
func LoadEnvDuration(envKey string, def time.Duration, validator func(time.Duration) error) LoadResult[time.Duration] {
	return load(envKey, def, time.ParseDuration, validator)
}

// LoadEnvInt loads a base-10 integer.
func LoadEnvInt(envKey string, def int, validator func(int) error) LoadResult[int] {
	return load(envKey, def, strconv.Atoi, validator)
}

// LoadEnvFloat loads a floating point number.
func LoadEnvFloat(envKey string, def float64, validator func(float64) error) LoadResult[float64] {
	return load(envKey, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) }, validator)
}

// LoadEnvBool loads a boolean accepted by strconv.ParseBool.
func LoadEnvBool(envKey string, def bool) LoadResult[bool] {
	return load(envKey, def, strconv.ParseBool, nil)
}

func load[T any](envKey string, def T, parse func(string) (T, error), validator func(T) error) LoadResult[T] {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return LoadResult[T]{Value: def}
	}

	v, err := parse(raw)
	if err == nil && validator != nil {
		err = validator(v)
	}
	if err != nil {
		return LoadResult[T]{
			Value:           def,
			Warnings:        []string{fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'", envKey, raw, err, def)},
			FallbackApplied: true,
		}
	}
	return LoadResult[T]{Value: v}
}
