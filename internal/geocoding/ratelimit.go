package geocoding

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimited throttles calls to an upstream provider. Nominatim's usage
// policy allows one request per second per application.
type RateLimited struct {
	next    Provider
	limiter *rate.Limiter
}

// NewRateLimited wraps next with a token bucket of perSecond requests and
// the given burst. A non-positive rate returns next unchanged.
func NewRateLimited(next Provider, perSecond float64, burst int) Provider {
	if perSecond <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Predictions waits for a token, then delegates.
func (r *RateLimited) Predictions(ctx context.Context, query string) (PredictionResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return PredictionResult{}, &PredictionFetchError{Query: query, Err: err}
	}
	return r.next.Predictions(ctx, query)
}

// Details waits for a token, then delegates.
func (r *RateLimited) Details(ctx context.Context, placeID string) (Place, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return Place{}, &DetailFetchError{PlaceID: placeID, Err: err}
	}
	return r.next.Details(ctx, placeID)
}
