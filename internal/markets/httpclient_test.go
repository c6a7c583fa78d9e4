package markets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBreakerTestClient(cooldown time.Duration) *VenueHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	cfg.CircuitBreakerMax = 2
	cfg.CircuitBreakerCooldown = cooldown
	return NewVenueHTTPClient(cfg, testLogger())
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newBreakerTestClient(time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.Get(ctx, server.URL)
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "circuit breaker open")
	}

	// Third call is rejected without reaching the server.
	_, err := client.Get(ctx, server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
}

func TestCircuitBreakerClosesAfterCooldownProbeSucceeds(t *testing.T) {
	var healthy atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newBreakerTestClient(50 * time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.Get(ctx, server.URL)
		require.Error(t, err)
	}

	_, err := client.Get(ctx, server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")

	// After the cooldown the venue has recovered; the half-open probe
	// succeeds and closes the breaker.
	healthy.Store(true)
	time.Sleep(60 * time.Millisecond)

	resp, err := client.Get(ctx, server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	// A single fresh failure reports the transport error, not an open
	// breaker.
	healthy.Store(false)
	_, err = client.Get(ctx, server.URL)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "circuit breaker open")
}

func TestCircuitBreakerReopensWhenProbeFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newBreakerTestClient(50 * time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.Get(ctx, server.URL)
		require.Error(t, err)
	}

	time.Sleep(60 * time.Millisecond)

	// The probe reaches the still-failing venue and re-opens the breaker.
	_, err := client.Get(ctx, server.URL)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "circuit breaker open")

	_, err = client.Get(ctx, server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
}
