// Package datasource fetches fixtures, odds and injury reports from the
// external sports data provider.
package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimitedHTTPClient wraps retryablehttp with a token-bucket rate limiter
// and a simple circuit breaker. The provider enforces per-key request quotas,
// so every outbound call flows through the limiter.
type RateLimitedHTTPClient struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	logger  *logrus.Logger

	mu                sync.Mutex
	consecutiveErrors int
	isOpen            bool
	openedAt          time.Time
}

const (
	circuitBreakerThreshold = 5
	circuitBreakerCooldown  = 60 * time.Second
)

// NewRateLimitedHTTPClient creates a client with the given rate limit,
// timeout and retry budget.
func NewRateLimitedHTTPClient(requestsPerSecond float64, timeout time.Duration, retryAttempts int, logger *logrus.Logger) *RateLimitedHTTPClient {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retryAttempts
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 30 * time.Second
	retryClient.HTTPClient.Timeout = timeout
	retryClient.CheckRetry = customRetryPolicy()
	retryClient.Logger = nil

	return &RateLimitedHTTPClient{
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		logger:  logger,
	}
}

// Do executes a request, waiting for rate limiter clearance first
func (c *RateLimitedHTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	if c.isOpen {
		if time.Since(c.openedAt) < circuitBreakerCooldown {
			c.mu.Unlock()
			return nil, fmt.Errorf("circuit breaker open, retry after %s", circuitBreakerCooldown)
		}
		// Cooldown elapsed, allow a probe request through
		c.isOpen = false
	}
	c.mu.Unlock()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	retryReq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap request: %w", err)
	}
	retryReq = retryReq.WithContext(ctx)

	resp, err := c.client.Do(retryReq)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil || (resp != nil && resp.StatusCode >= 500) {
		c.consecutiveErrors++
		if c.consecutiveErrors >= circuitBreakerThreshold {
			c.isOpen = true
			c.openedAt = time.Now()
			c.logger.WithField("consecutive_errors", c.consecutiveErrors).Warn("Circuit breaker opened")
		}
		if err != nil {
			return nil, err
		}
		return resp, nil
	}

	c.consecutiveErrors = 0
	return resp, nil
}

// Get executes a GET request with the provided headers
func (c *RateLimitedHTTPClient) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.Do(ctx, req)
}

// Post executes a POST request
func (c *RateLimitedHTTPClient) Post(ctx context.Context, url string, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(ctx, req)
}

// Close releases idle connections
func (c *RateLimitedHTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// customRetryPolicy retries network errors, 429s and 5xx responses.
// Other client errors fail immediately.
func customRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, err
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return true, nil
		}
		return false, nil
	}
}
