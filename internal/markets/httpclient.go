package markets

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// HTTPClientConfig holds configuration for venue HTTP clients.
type HTTPClientConfig struct {
	Timeout                time.Duration
	MaxRetries             int
	RetryWaitMin           time.Duration
	RetryWaitMax           time.Duration
	RateLimit              float64       // requests per second
	CircuitBreakerMax      int           // consecutive failures before the circuit opens
	CircuitBreakerCooldown time.Duration // how long the circuit stays open before a probe
}

// DefaultHTTPClientConfig returns recommended defaults for public
// prediction-market APIs.
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:                10 * time.Second,
		MaxRetries:             2,
		RetryWaitMin:           100 * time.Millisecond,
		RetryWaitMax:           2 * time.Second,
		RateLimit:              10.0,
		CircuitBreakerMax:      5,
		CircuitBreakerCooldown: 30 * time.Second,
	}
}

// VenueHTTPClient wraps retryablehttp.Client with rate limiting and a
// simple consecutive-failure circuit breaker. One client per venue, so a
// tripped breaker never affects other venues.
type VenueHTTPClient struct {
	client            *retryablehttp.Client
	limiter           *rate.Limiter
	circuitBreakerMax int
	cooldown          time.Duration
	logger            *logrus.Logger

	mu                sync.Mutex
	consecutiveErrors int
	open              bool
	openedAt          time.Time
	lastError         error
}

// NewVenueHTTPClient creates a new rate-limited HTTP client.
func NewVenueHTTPClient(cfg HTTPClientConfig, logger *logrus.Logger) *VenueHTTPClient {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = venueRetryPolicy()
	retryClient.Logger = nil

	cooldown := cfg.CircuitBreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	return &VenueHTTPClient{
		client:            retryClient,
		limiter:           rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		circuitBreakerMax: cfg.CircuitBreakerMax,
		cooldown:          cooldown,
		logger:            logger,
	}
}

// Do executes a request with rate limiting and circuit breaking.
func (c *VenueHTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	if c.open && time.Since(c.openedAt) < c.cooldown {
		lastErr := c.lastError
		c.mu.Unlock()
		return nil, fmt.Errorf("circuit breaker open: %v", lastErr)
	}
	// Once the cooldown elapses the breaker is half-open: requests go
	// through again, and the first success closes it.
	c.mu.Unlock()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.client.StandardClient().Do(req.WithContext(ctx))

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.consecutiveErrors++
		c.lastError = err
		if c.consecutiveErrors >= c.circuitBreakerMax {
			if !c.open {
				c.logger.WithFields(logrus.Fields{
					"consecutive_errors": c.consecutiveErrors,
				}).Warn("Venue circuit breaker opened")
			}
			c.open = true
			c.openedAt = time.Now()
		}
		return nil, err
	}

	if resp.StatusCode < 500 {
		c.consecutiveErrors = 0
		c.open = false
	}
	return resp, nil
}

// Get executes a GET request with an Accept: application/json header.
func (c *VenueHTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.Do(ctx, req)
}

// Close releases idle connections.
func (c *VenueHTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// venueRetryPolicy retries network errors, 429 and 5xx responses; other
// client errors fail immediately.
func venueRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, err
		}
		switch resp.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true, nil
		}
		return false, nil
	}
}
