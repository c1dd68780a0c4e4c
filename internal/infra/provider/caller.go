package provider

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"cineverse/internal/observability/logging"
	"cineverse/internal/observability/metrics"
	"cineverse/internal/observability/tracing"
	"cineverse/internal/resilience/circuitbreaker"
)

const (
	maxBodySize = 2 * 1024 * 1024
	userAgent   = "CineVerse/1.0"
)

// CallerConfig configures one provider's HTTP caller.
type CallerConfig struct {
	// Name labels logs, metrics, spans and the circuit breaker ("tmdb", "omdb").
	Name    string
	BaseURL string

	// KeyParam is the query parameter carrying Key ("api_key", "apikey").
	KeyParam string
	Key      string

	Timeout time.Duration
	RPS     float64
	Burst   int

	// HTTPClient overrides the default client. Timeout is still applied per request.
	HTTPClient *http.Client
}

// Request describes one GET against a provider.
type Request struct {
	Operation string
	// Key is the lookup key reported in errors and logs.
	Key   string
	Path  string
	Query url.Values
}

// Caller issues rate limited, circuit protected JSON GETs against one
// provider and converts every failure into a *MissError.
// A Caller is safe for concurrent use.
type Caller struct {
	name     string
	base     *url.URL
	keyParam string
	key      string
	timeout  time.Duration
	client   *http.Client
	limiter  *rate.Limiter
	breaker  *circuitbreaker.CircuitBreaker
}

// NewCaller creates a Caller. It fails only on an unparsable base URL.
func NewCaller(cfg CallerConfig) (*Caller, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse %s base URL: %w", cfg.Name, err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        50,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rps, burst := cfg.RPS, cfg.Burst
	if rps <= 0 {
		rps = 4
	}
	if burst < 1 {
		burst = 1
	}
	return &Caller{
		name:     cfg.Name,
		base:     base,
		keyParam: cfg.KeyParam,
		key:      cfg.Key,
		timeout:  timeout,
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		breaker:  circuitbreaker.New(circuitbreaker.ProviderConfig(cfg.Name)),
	}, nil
}

// Name returns the provider name.
func (c *Caller) Name() string { return c.name }

// GetJSON performs req and decodes the body into out. When matched is non-nil
// and returns false after decoding, the call is reported as a no-match miss.
func (c *Caller) GetJSON(ctx context.Context, req Request, out any, matched func() bool) error {
	start := time.Now()
	ctx, span := tracing.Start(ctx, "provider."+c.name+"."+req.Operation,
		attribute.String("provider", c.name),
		attribute.String("lookup.key", req.Key))
	defer span.End()

	err := c.get(ctx, req, out)
	if err == nil && matched != nil && !matched() {
		err = &MissError{Provider: c.name, Operation: req.Operation, Key: req.Key, Reason: ReasonNoMatch}
	}

	result := "success"
	if err != nil {
		result = string(ReasonOf(err))
		tracing.Fail(span, err)
		logging.FromContext(ctx).Debug("provider lookup missed",
			slog.String("provider", c.name),
			slog.String("operation", req.Operation),
			slog.String("key", req.Key),
			slog.String("reason", result),
			slog.String("error", err.Error()))
	}
	metrics.RecordProviderRequest(c.name, req.Operation, result, time.Since(start))
	return err
}

func (c *Caller) get(ctx context.Context, req Request, out any) error {
	miss := func(reason Reason, err error) error {
		return &MissError{Provider: c.name, Operation: req.Operation, Key: req.Key, Reason: reason, Err: err}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return miss(ReasonUnavailable, err)
	}

	_, err := circuitbreaker.Execute(c.breaker, func() (struct{}, error) {
		return struct{}{}, c.do(ctx, req, out)
	})
	switch {
	case err == nil:
		return nil
	case circuitbreaker.IsOpen(err):
		return miss(ReasonCircuitOpen, err)
	}

	var status *HTTPStatusError
	var syntax *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &status):
		if status.StatusCode == http.StatusNotFound {
			return miss(ReasonNoMatch, err)
		}
		return miss(ReasonHTTPStatus, err)
	case errors.As(err, &syntax), errors.As(err, &typeErr), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, errMalformed):
		return miss(ReasonMalformed, err)
	default:
		return miss(ReasonUnavailable, err)
	}
}

var errMalformed = errors.New("malformed payload")

// do runs one request. 404 and undecodable bodies are returned wrapped in
// circuitbreaker.ErrNotCounted: they describe the record, not the provider's health.
func (c *Caller) do(ctx context.Context, req Request, out any) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.endpoint(req)
	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = c.redact(u)
		}
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", circuitbreaker.ErrNotCounted, err)
		}
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		statusErr := &HTTPStatusError{URL: c.redact(u), StatusCode: resp.StatusCode}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", circuitbreaker.ErrNotCounted, statusErr)
		}
		return statusErr
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("%w: empty body", errMalformed)
		}
		return fmt.Errorf("%w: decode %s response: %w", circuitbreaker.ErrNotCounted, c.name, err)
	}
	return nil
}

func (c *Caller) endpoint(req Request) *url.URL {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(req.Path, "/")
	q := url.Values{}
	for k, vs := range req.Query {
		q[k] = append([]string(nil), vs...)
	}
	if c.keyParam != "" {
		q.Set(c.keyParam, c.key)
	}
	u.RawQuery = q.Encode()
	return &u
}

// redact renders u with the credential masked.
func (c *Caller) redact(u *url.URL) string {
	if c.keyParam == "" {
		return u.String()
	}
	r := *u
	q := r.Query()
	if q.Has(c.keyParam) {
		q.Set(c.keyParam, "****")
	}
	r.RawQuery = q.Encode()
	return r.String()
}
