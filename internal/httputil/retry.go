// Package httputil provides the retrying HTTP client shared by outbound integrations.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net"
	"net/http"
	"time"

	"example.com/habitkick/internal/observability"
)

// RetryConfig configures retry behaviour.
type RetryConfig struct {
	MaxRetries           int
	InitialBackoff       time.Duration
	MaxBackoff           time.Duration
	BackoffMultiplier    float64
	Jitter               float64 // fraction of the backoff, 0..1
	RetryableStatusCodes []int
}

// DefaultRetryConfig returns the retry policy used by every upstream client.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            0.1,
		RetryableStatusCodes: []int{
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
	}
}

// StatusError reports a response whose status never became acceptable.
type StatusError struct {
	Service    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d %s", e.Service, e.StatusCode, http.StatusText(e.StatusCode))
}

// Client wraps http.Client with retries for one named upstream service.
type Client struct {
	service string
	http    *http.Client
	retry   RetryConfig
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewClient constructs a Client. A zero timeout keeps the http.Client default of none.
func NewClient(service string, timeout time.Duration, retry RetryConfig) *Client {
	return &Client{
		service: service,
		http:    &http.Client{Timeout: timeout},
		retry:   retry,
		sleep:   sleepContext,
	}
}

// Service returns the upstream name used for metrics and errors.
func (c *Client) Service() string { return c.service }

// Do executes req, retrying network errors and retryable statuses.
// Requests with a body must be built with http.NewRequestWithContext so GetBody can rewind it.
// The final retryable response is returned with a *StatusError so callers can still inspect it.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	var lastErr error

	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, c.backoff(attempt)); err != nil {
				observability.RecordUpstream(c.service, "canceled")
				return nil, err
			}
			next, err := rewind(req)
			if err != nil {
				return nil, err
			}
			req = next
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			if retryableError(ctx, err) {
				observability.RecordUpstream(c.service, "retry")
				continue
			}
			observability.RecordUpstream(c.service, "error")
			return nil, fmt.Errorf("%s: %w", c.service, err)
		}

		if !c.retryableStatus(resp.StatusCode) {
			observability.RecordUpstream(c.service, outcome(resp.StatusCode))
			return resp, nil
		}
		lastErr = &StatusError{Service: c.service, StatusCode: resp.StatusCode}
		if attempt == c.retry.MaxRetries {
			observability.RecordUpstream(c.service, "exhausted")
			return resp, lastErr
		}
		observability.RecordUpstream(c.service, "retry")
		resp.Body.Close()
	}

	observability.RecordUpstream(c.service, "exhausted")
	return nil, fmt.Errorf("%s: retries exhausted: %w", c.service, lastErr)
}

func (c *Client) backoff(attempt int) time.Duration {
	backoff := float64(c.retry.InitialBackoff) * math.Pow(c.retry.BackoffMultiplier, float64(attempt-1))
	if backoff > float64(c.retry.MaxBackoff) {
		backoff = float64(c.retry.MaxBackoff)
	}
	if c.retry.Jitter > 0 {
		backoff += backoff * c.retry.Jitter * (rand.Float64()*2 - 1)
	}
	return time.Duration(backoff)
}

func (c *Client) retryableStatus(code int) bool {
	for _, retryable := range c.retry.RetryableStatusCodes {
		if code == retryable {
			return true
		}
	}
	return false
}

func retryableError(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func rewind(req *http.Request) (*http.Request, error) {
	next := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return next, nil
	}
	if req.GetBody == nil {
		return nil, errors.New("request body cannot be replayed")
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	next.Body = body
	return next, nil
}

func outcome(code int) string {
	if code >= 200 && code < 400 {
		return "success"
	}
	return "error"
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
