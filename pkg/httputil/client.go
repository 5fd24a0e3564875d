// Package httputil provides the outbound HTTP client used by the
// enrichment scorers: bounded retries with exponential backoff, an
// optional shared rate limit, and request logging.
package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/niveshquant/quantfolio/pkg/logger"
	"github.com/niveshquant/quantfolio/pkg/redis"
)

// RetryConfig bounds the retry loop. MaxRetries of zero means a single
// attempt.
type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// Client wraps http.Client. Configure it with the With* methods before
// first use; they are not safe to call concurrently with requests.
type Client struct {
	httpClient  *http.Client
	logger      *logger.Logger
	retry       RetryConfig
	limiter     *redis.RateLimiter
	limiterCfg  redis.RateLimitConfig
	bearerToken string
}

// New returns a client with a 30 second timeout and default retries.
func New(log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log,
		retry: RetryConfig{
			MaxRetries:   3,
			InitialDelay: time.Second,
			MaxDelay:     10 * time.Second,
		},
	}
}

// NewWithTimeout returns a client with a custom per-request timeout.
func NewWithTimeout(log *logger.Logger, timeout time.Duration) *Client {
	c := New(log)
	c.httpClient.Timeout = timeout
	return c
}

// WithRetry overrides the retry budget.
func (c *Client) WithRetry(maxRetries int, initialDelay time.Duration) *Client {
	c.retry.MaxRetries = maxRetries
	c.retry.InitialDelay = initialDelay
	return c
}

// WithRateLimit makes every request wait on the shared limiter first.
func (c *Client) WithRateLimit(limiter *redis.RateLimiter, cfg redis.RateLimitConfig) *Client {
	c.limiter = limiter
	c.limiterCfg = cfg
	return c
}

// WithBearerToken attaches an Authorization header to every request.
// An empty token leaves requests unauthenticated.
func (c *Client) WithBearerToken(token string) *Client {
	c.bearerToken = token
	return c
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}
	return c.do(req)
}

// PostJSON marshals data and POSTs it as application/json.
func (c *Client) PostJSON(ctx context.Context, url string, data interface{}) (*http.Response, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create POST request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// DecodeJSON reads a response body into dest and closes it. Non-2xx
// statuses become errors carrying the status code.
func DecodeJSON(resp *http.Response, dest interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()

	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context(), c.limiterCfg); err != nil {
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	}).Debug("HTTP request started")

	resp, err := c.send(req)
	if err != nil {
		c.logger.WithError(err).WithFields(map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"duration": time.Since(start),
		}).Error("HTTP request failed")
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("HTTP request completed")
	return resp, nil
}

// send runs the retry loop. Request bodies are rewound through GetBody
// before each re-attempt, and abandoned response bodies are closed.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	delay := c.retry.InitialDelay

	for attempt := 0; ; attempt++ {
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", err)
			}
			req.Body = body
		}

		resp, err := c.httpClient.Do(req)
		if err == nil && !retryable(resp.StatusCode) {
			return resp, nil
		}
		if attempt == c.retry.MaxRetries {
			return resp, err
		}
		if resp != nil {
			resp.Body.Close()
		}

		c.logger.WithFields(map[string]interface{}{
			"attempt": attempt + 1,
			"delay":   delay,
			"url":     req.URL.String(),
		}).Warn("Retrying HTTP request")

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > c.retry.MaxDelay {
			delay = c.retry.MaxDelay
		}
	}
}

// retryable covers transient server failures and throttling.
func retryable(status int) bool {
	return status >= 500 || status == http.StatusTooManyRequests
}
