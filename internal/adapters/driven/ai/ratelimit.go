package ai

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure RateLimitedEmbedder implements the interface.
var _ driven.EmbeddingProvider = (*RateLimitedEmbedder)(nil)

// DefaultBackoff is how long requests pause after the provider reports a
// rate limit.
const DefaultBackoff = 30 * time.Second

// RateLimitedEmbedder throttles an embedding provider with a token bucket and
// pauses all callers after a rate limit response.
type RateLimitedEmbedder struct {
	driven.EmbeddingProvider

	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	backoff time.Duration
}

// RateLimitOption configures a RateLimitedEmbedder.
type RateLimitOption func(*RateLimitedEmbedder)

// WithBurst sets the token bucket size. The default is one request.
func WithBurst(burst int) RateLimitOption {
	return func(r *RateLimitedEmbedder) {
		if burst > 0 {
			r.limiter.SetBurst(burst)
		}
	}
}

// WithBackoff sets the pause after a rate limit response.
func WithBackoff(d time.Duration) RateLimitOption {
	return func(r *RateLimitedEmbedder) {
		r.backoff = d
	}
}

// NewRateLimitedEmbedder wraps inner so at most rps requests start per second.
func NewRateLimitedEmbedder(inner driven.EmbeddingProvider, rps float64, opts ...RateLimitOption) *RateLimitedEmbedder {
	r := &RateLimitedEmbedder{
		EmbeddingProvider: inner,
		limiter:           rate.NewLimiter(rate.Limit(rps), 1),
		backoff:           DefaultBackoff,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Embed waits for a token, then embeds text.
func (r *RateLimitedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := r.Wait(ctx); err != nil {
		return nil, err
	}
	v, err := r.EmbeddingProvider.Embed(ctx, text)
	r.observe(err)
	return v, err
}

// EmbedBatch waits for a token, then embeds texts.
func (r *RateLimitedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := r.Wait(ctx); err != nil {
		return nil, err
	}
	v, err := r.EmbeddingProvider.EmbedBatch(ctx, texts)
	r.observe(err)
	return v, err
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by a rate limit response.
func (r *RateLimitedEmbedder) Wait(ctx context.Context) error {
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

// Allow reports whether a request could start now without blocking.
func (r *RateLimitedEmbedder) Allow() bool {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}
	return r.limiter.Allow()
}

func (r *RateLimitedEmbedder) observe(err error) {
	if err == nil || !errors.Is(err, domain.ErrRateLimited) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryAt = time.Now().Add(r.backoff)
}
