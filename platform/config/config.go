// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Geocoder provider names accepted in GEOCODER_PROVIDER.
const (
	ProviderNominatim = "nominatim"
	ProviderGoogle    = "google"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// GeocodingConfig provides settings for the external geocoding provider.
type GeocodingConfig interface {
	GetGeocoderProvider() string
	GetGoogleMapsAPIKey() string
	GetNominatimURL() string
	GetNominatimCountryCodes() string
	GetNominatimUserAgent() string
	GetGeocoderRateLimit() float64
	GetGeocoderTimeout() time.Duration
}

// CacheConfig provides settings for the geocoding response cache.
type CacheConfig interface {
	GetRedisURL() string
	GetGeocoderCacheTTL() time.Duration
	IsRedisEnabled() bool
}

// AutocompleteConfig provides settings for location input sessions.
type AutocompleteConfig interface {
	GetAutocompleteDebounce() time.Duration
	GetAutocompleteSessionTTL() time.Duration
}

// MarketplaceConfig provides settings for the marketplace API client.
type MarketplaceConfig interface {
	GetMarketplaceAPIURL() string
	GetMarketplaceAPIToken() string
	IsMarketplaceEnabled() bool
}

// BookingConfig provides settings for booking price estimation.
type BookingConfig interface {
	GetMarketplaceCurrency() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                    string
	HTTPAddr               string
	CORSAllowAll           bool
	CORSOrigins            []string
	CORSAllowCreds         bool
	GeocoderProvider       string
	GoogleMapsAPIKey       string
	NominatimURL           string
	NominatimCountryCodes  string
	NominatimUserAgent     string
	GeocoderRateLimit      float64
	GeocoderTimeout        time.Duration
	RedisURL               string
	GeocoderCacheTTL       time.Duration
	AutocompleteDebounce   time.Duration
	AutocompleteSessionTTL time.Duration
	MarketplaceAPIURL      string
	MarketplaceAPIToken    string
	MarketplaceCurrency    string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// GeocodingConfig implementation
func (c *Config) GetGeocoderProvider() string       { return c.GeocoderProvider }
func (c *Config) GetGoogleMapsAPIKey() string       { return c.GoogleMapsAPIKey }
func (c *Config) GetNominatimURL() string           { return c.NominatimURL }
func (c *Config) GetNominatimCountryCodes() string  { return c.NominatimCountryCodes }
func (c *Config) GetNominatimUserAgent() string     { return c.NominatimUserAgent }
func (c *Config) GetGeocoderRateLimit() float64     { return c.GeocoderRateLimit }
func (c *Config) GetGeocoderTimeout() time.Duration { return c.GeocoderTimeout }

// CacheConfig implementation
func (c *Config) GetRedisURL() string                { return c.RedisURL }
func (c *Config) GetGeocoderCacheTTL() time.Duration { return c.GeocoderCacheTTL }
func (c *Config) IsRedisEnabled() bool               { return c.RedisURL != "" }

// AutocompleteConfig implementation
func (c *Config) GetAutocompleteDebounce() time.Duration   { return c.AutocompleteDebounce }
func (c *Config) GetAutocompleteSessionTTL() time.Duration { return c.AutocompleteSessionTTL }

// MarketplaceConfig implementation
func (c *Config) GetMarketplaceAPIURL() string   { return c.MarketplaceAPIURL }
func (c *Config) GetMarketplaceAPIToken() string { return c.MarketplaceAPIToken }
func (c *Config) IsMarketplaceEnabled() bool     { return c.MarketplaceAPIURL != "" }

// BookingConfig implementation
func (c *Config) GetMarketplaceCurrency() string { return c.MarketplaceCurrency }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                    getEnv("APP_ENV", "development"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:           corsAllowAll,
		CORSOrigins:            corsOrigins,
		CORSAllowCreds:         strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		GeocoderProvider:       strings.ToLower(getEnv("GEOCODER_PROVIDER", ProviderNominatim)),
		GoogleMapsAPIKey:       getEnv("GOOGLE_MAPS_API_KEY", ""),
		NominatimURL:           strings.TrimRight(getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"), "/"),
		NominatimCountryCodes:  getEnv("NOMINATIM_COUNTRY_CODES", "us"),
		NominatimUserAgent:     getEnv("NOMINATIM_USER_AGENT", "LCKR/1.0"),
		GeocoderRateLimit:      mustFloat(getEnv("GEOCODER_RATE_LIMIT", "1")),
		GeocoderTimeout:        mustDuration(getEnv("GEOCODER_TIMEOUT", "5s")),
		RedisURL:               getEnv("REDIS_URL", ""),
		GeocoderCacheTTL:       mustDuration(getEnv("GEOCODER_CACHE_TTL", "24h")),
		AutocompleteDebounce:   mustDuration(getEnv("AUTOCOMPLETE_DEBOUNCE", "200ms")),
		AutocompleteSessionTTL: mustDuration(getEnv("AUTOCOMPLETE_SESSION_TTL", "30m")),
		MarketplaceAPIURL:      strings.TrimRight(getEnv("MARKETPLACE_API_URL", ""), "/"),
		MarketplaceAPIToken:    getEnv("MARKETPLACE_API_TOKEN", ""),
		MarketplaceCurrency:    strings.ToUpper(getEnv("MARKETPLACE_CURRENCY", "USD")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.GeocoderProvider {
	case ProviderNominatim:
		if c.NominatimURL == "" {
			return fmt.Errorf("NOMINATIM_URL is required when GEOCODER_PROVIDER is nominatim")
		}
	case ProviderGoogle:
		if c.GoogleMapsAPIKey == "" {
			return fmt.Errorf("GOOGLE_MAPS_API_KEY is required when GEOCODER_PROVIDER is google")
		}
	default:
		return fmt.Errorf("unsupported GEOCODER_PROVIDER %q", c.GeocoderProvider)
	}
	if c.AutocompleteDebounce <= 0 {
		return fmt.Errorf("AUTOCOMPLETE_DEBOUNCE must be a positive duration")
	}
	if c.GeocoderTimeout <= 0 {
		return fmt.Errorf("GEOCODER_TIMEOUT must be a positive duration")
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
