package weather

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/sandeepkv93/urbanroots/internal/model"
)

// RateLimited caps how often the wrapped provider is called.
type RateLimited struct {
	provider Provider
	limiter  *rate.Limiter
	name     string
}

// NewRateLimited allows perMinute calls per minute with a burst of one.
// A non-positive perMinute disables limiting.
func NewRateLimited(p Provider, perMinute int) *RateLimited {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &RateLimited{
		provider: p,
		limiter:  rate.NewLimiter(limit, 1),
		name:     p.Name() + " [rate limited]",
	}
}

func (r *RateLimited) Name() string {
	return r.name
}

func (r *RateLimited) Current(ctx context.Context, location string) (model.WeatherSnapshot, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return model.WeatherSnapshot{}, fmt.Errorf("weather: rate limit wait canceled: %w", err)
	}
	return r.provider.Current(ctx, location)
}

var _ Provider = (*RateLimited)(nil)
