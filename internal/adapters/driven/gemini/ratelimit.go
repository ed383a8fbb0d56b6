// Package gemini provides shared plumbing for the Gemini API adapters,
// currently rate limiting for the generative and embedding endpoints.
package gemini

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// EndpointType identifies a Gemini API endpoint for rate limiting purposes.
type EndpointType string

const (
	// EndpointGenerate is the generateContent endpoint.
	EndpointGenerate EndpointType = "generate"
	// EndpointEmbed is the embedContent/batchEmbedContents endpoint.
	EndpointEmbed EndpointType = "embed"
)

// RateLimitConfig holds rate limiting configuration for an endpoint.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultRateLimits provides conservative defaults for each endpoint.
// These sit well below the free-tier quotas to avoid 429 responses.
var DefaultRateLimits = map[EndpointType]RateLimitConfig{
	EndpointGenerate: {RequestsPerSecond: 0.2, BurstSize: 2},
	EndpointEmbed:    {RequestsPerSecond: 2.0, BurstSize: 5},
}

// RateLimiter provides rate limiting for Gemini API requests.
// It uses a token bucket algorithm with optional backoff for 429 responses.
type RateLimiter struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	retryAt  time.Time
	endpoint EndpointType
}

// NewRateLimiter creates a new rate limiter for the specified endpoint.
func NewRateLimiter(endpoint EndpointType) *RateLimiter {
	cfg, ok := DefaultRateLimits[endpoint]
	if !ok {
		cfg = RateLimitConfig{RequestsPerSecond: 1.0, BurstSize: 2}
	}

	return &RateLimiter{
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		endpoint: endpoint,
	}
}

// NewRateLimiterWithConfig creates a rate limiter with custom configuration.
func NewRateLimiterWithConfig(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by RecordRateLimitError.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimitError records a rate limit error and sets a backoff period.
// Call this when receiving a 429 response from the Gemini API.
func (r *RateLimiter) RecordRateLimitError(retryAfterSeconds int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if retryAfterSeconds <= 0 {
		// Default backoff: 60 seconds
		retryAfterSeconds = 60
	}

	r.retryAt = time.Now().Add(time.Duration(retryAfterSeconds) * time.Second)
}

// Allow checks if a request can be made immediately without blocking.
// Returns true if the request is allowed, false if it would exceed the rate limit.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}

	return r.limiter.Allow()
}
