package geocoding

import (
	"fmt"

	"lckr_backend/platform/config"
	"lckr_backend/platform/logger"
)

// NewProviderFromConfig builds the configured upstream provider, rate limited.
func NewProviderFromConfig(cfg config.GeocodingConfig, log *logger.Logger) (Provider, error) {
	var provider Provider

	switch cfg.GetGeocoderProvider() {
	case config.ProviderNominatim:
		provider = NewNominatim(NominatimOptions{
			BaseURL:      cfg.GetNominatimURL(),
			CountryCodes: cfg.GetNominatimCountryCodes(),
			UserAgent:    cfg.GetNominatimUserAgent(),
			Timeout:      cfg.GetGeocoderTimeout(),
		}, log)
	case config.ProviderGoogle:
		if cfg.GetGoogleMapsAPIKey() == "" {
			return nil, fmt.Errorf("google provider requires an api key")
		}
		provider = NewGoogle(GoogleOptions{
			APIKey:  cfg.GetGoogleMapsAPIKey(),
			Timeout: cfg.GetGeocoderTimeout(),
		}, log)
	default:
		return nil, fmt.Errorf("unsupported geocoding provider %q", cfg.GetGeocoderProvider())
	}

	return NewRateLimited(provider, cfg.GetGeocoderRateLimit(), 1), nil
}

// NewCacheFromConfig returns a Redis cache when REDIS_URL is set, otherwise
// an in-process cache. The returned close function is never nil.
func NewCacheFromConfig(cfg config.CacheConfig, log *logger.Logger) (Cache, func() error, error) {
	if !cfg.IsRedisEnabled() {
		log.Info("geocoding cache: REDIS_URL not configured, using in-memory cache")
		return NewMemoryCache(), func() error { return nil }, nil
	}

	redisCache, err := NewRedisCache(cfg.GetRedisURL())
	if err != nil {
		return nil, nil, err
	}
	log.Info("geocoding cache: using redis")
	return redisCache, redisCache.Close, nil
}
