package ocr

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/time/rate"
)

// RateLimited throttles calls to a remote engine.
type RateLimited struct {
	Engine  Engine
	Limiter *rate.Limiter
}

// NewRateLimited allows perSecond calls per second with the given burst.
func NewRateLimited(e Engine, perSecond float64, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{Engine: e, Limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Name implements Engine.
func (r *RateLimited) Name() string { return r.Engine.Name() }

// Recognize waits for the limiter, then calls the wrapped engine.
func (r *RateLimited) Recognize(ctx context.Context, img image.Image) (string, error) {
	if err := r.Limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	return r.Engine.Recognize(ctx, img)
}

// Probe describes the wrapped engine.
func (r *RateLimited) Probe(ctx context.Context) Info {
	info := Describe(ctx, r.Engine)
	info.RateLimited = true
	return info
}
