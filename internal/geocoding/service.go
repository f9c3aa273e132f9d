package geocoding

import (
	"context"
	"errors"
	"time"

	"lckr_backend/platform/logger"

	"golang.org/x/sync/singleflight"
)

// Service fronts a Provider with a cache and collapses concurrent identical
// requests into one upstream call.
type Service struct {
	provider Provider
	cache    Cache
	cacheTTL time.Duration
	group    singleflight.Group
	log      *logger.Logger
}

// NewService creates a geocoding service. cache may be nil.
func NewService(provider Provider, cache Cache, cacheTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		provider: provider,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Predictions returns predictions for query, echoing query verbatim.
// Empty prediction lists are not cached.
func (s *Service) Predictions(ctx context.Context, query string) (PredictionResult, error) {
	key := "predictions:" + query

	var cached []Prediction
	if s.fromCache(ctx, key, &cached) {
		return PredictionResult{Search: query, Predictions: cached}, nil
	}

	v, err := s.shared(ctx, key, func(upstream context.Context) (interface{}, error) {
		result, err := s.provider.Predictions(upstream, query)
		if err != nil {
			return PredictionResult{}, err
		}
		if len(result.Predictions) > 0 {
			s.toCache(upstream, key, result.Predictions)
		}
		return result, nil
	})
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return PredictionResult{}, &PredictionFetchError{Query: query, Err: err}
		}
		return PredictionResult{}, err
	}

	result := v.(PredictionResult)
	result.Search = query
	return result, nil
}

// Details resolves placeID, consulting the cache first.
func (s *Service) Details(ctx context.Context, placeID string) (Place, error) {
	key := "place:" + placeID

	var cached Place
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	v, err := s.shared(ctx, key, func(upstream context.Context) (interface{}, error) {
		place, err := s.provider.Details(upstream, placeID)
		if err != nil {
			return Place{}, err
		}
		s.toCache(upstream, key, place)
		return place, nil
	})
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return Place{}, &DetailFetchError{PlaceID: placeID, Err: err}
		}
		return Place{}, err
	}
	return v.(Place), nil
}

// shared runs fn once per key for all concurrent callers. The upstream call
// is detached from any single caller, but each caller stops waiting as soon
// as its own ctx is done.
func (s *Service) shared(ctx context.Context, key string, fn func(upstream context.Context) (interface{}, error)) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	upstream := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return fn(upstream)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) fromCache(ctx context.Context, key string, dst interface{}) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.log.Warn("geocoding cache read failed", "key", key, "error", err)
		return false
	}
	return found
}

func (s *Service) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(context.WithoutCancel(ctx), key, value, s.cacheTTL); err != nil {
		s.log.Warn("geocoding cache write failed", "key", key, "error", err)
	}
}

var _ Provider = (*Service)(nil)
