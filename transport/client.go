// Package transport is the HTTP client for the SpendWise backend API.
// Every call goes through the circuit breaker, retry with backoff, and
// the bulkhead; response statuses are mapped onto the domain error
// types the mutation coordinator acts on.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/HananelSabag/SpendWise-sub004/domain"
	"github.com/HananelSabag/SpendWise-sub004/observability"
	"github.com/HananelSabag/SpendWise-sub004/resilience"
)

var tracer = otel.Tracer("transport")

// Client talks to the SpendWise backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	cfg        resilience.Config
	tokens     *TokenSource
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewClient creates a backend client. tokens may be nil for
// unauthenticated backends.
func NewClient(baseURL string, timeout time.Duration, cfg resilience.Config, tokens *TokenSource, metrics *observability.Metrics, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		cb:         resilience.NewCircuitBreaker("spendwise-api"),
		bulkhead:   resilience.NewBulkhead(cfg.MaxConcurrency),
		cfg:        cfg,
		tokens:     tokens,
		metrics:    metrics,
		logger:     logger,
	}
}

// call describes one backend request plus the resource identity used
// for error mapping.
type call struct {
	method    string
	path      string
	body      any
	out       any
	operation string
	resource  string
	id        string
}

// apiError is the backend's error envelope.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, cl call) error {
	if err := c.bulkhead.Acquire(ctx); err != nil {
		return &domain.ErrNetwork{Operation: cl.operation, Err: err}
	}
	defer c.bulkhead.Release()

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			return c.roundTrip(ctx, cl)
		})
	})
	if err == nil {
		return nil
	}

	// Typed rejections pass through untouched; everything else is a
	// transport-level failure the coordinator rolls back on.
	var ev *domain.ErrValidation
	var ec *domain.ErrConflict
	var en *domain.ErrNotFound
	if errors.As(err, &ev) || errors.As(err, &ec) || errors.As(err, &en) {
		return err
	}
	if c.metrics != nil {
		c.metrics.IncrExternalError(cl.operation)
	}
	c.logger.Warn("backend request failed",
		zap.String("operation", cl.operation),
		zap.Error(err))
	return &domain.ErrNetwork{Operation: cl.operation, Err: err}
}

func (c *Client) roundTrip(ctx context.Context, cl call) error {
	var body io.Reader
	if cl.body != nil {
		buf, err := json.Marshal(cl.body)
		if err != nil {
			return &domain.ErrValidation{Field: "payload", Message: err.Error()}
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return err
	}
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if cl.out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(cl.out)
	case resp.StatusCode == http.StatusConflict:
		return &domain.ErrConflict{Resource: cl.resource, ID: cl.id}
	case resp.StatusCode == http.StatusNotFound:
		return &domain.ErrNotFound{Resource: cl.resource, ID: cl.id}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var apiErr apiError
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil {
			if apiErr.Message != "" {
				msg = apiErr.Message
			} else if apiErr.Error != "" {
				msg = apiErr.Error
			}
		}
		return &domain.ErrValidation{Field: cl.resource, Message: msg}
	default:
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
}
