package services

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle spaces out sequential requests so the CMS is not flooded.
// A zero interval disables waiting.
type Throttle struct {
	limiter *rate.Limiter
}

func NewThrottle(interval time.Duration) *Throttle {
	if interval <= 0 {
		return &Throttle{}
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next request may start. The first call never blocks.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil || t.limiter == nil {
		return ctx.Err()
	}
	return t.limiter.Wait(ctx)
}

// Each calls fn for every item in order, waiting on t before each call.
// It stops at the first error.
func Each[T any](ctx context.Context, t *Throttle, items []T, fn func(T) error) error {
	for _, item := range items {
		if err := t.Wait(ctx); err != nil {
			return err
		}
		if err := fn(item); err != nil {
			return err
		}
	}
	return nil
}
