package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lckr_backend/platform/logger"
)

const (
	defaultGoogleURL   = "https://maps.googleapis.com/maps/api"
	googleProviderName = "google"
)

// Google Places API response statuses.
const (
	googleStatusOK          = "OK"
	googleStatusZeroResults = "ZERO_RESULTS"
	googleStatusNotFound    = "NOT_FOUND"
)

// GoogleOptions configures the Google Places provider.
type GoogleOptions struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Google implements Provider with Places Autocomplete and Place Details.
type Google struct {
	client  *http.Client
	apiKey  string
	baseURL string
	log     *logger.Logger
}

// NewGoogle creates a Google Places provider.
func NewGoogle(opts GoogleOptions, log *logger.Logger) *Google {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultGoogleURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &Google{
		client:  &http.Client{Timeout: opts.Timeout},
		apiKey:  opts.APIKey,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		log:     log,
	}
}

// Predictions calls Places Autocomplete. The result echoes query verbatim.
func (g *Google) Predictions(ctx context.Context, query string) (PredictionResult, error) {
	params := url.Values{}
	params.Set("input", query)
	params.Set("key", g.apiKey)

	var payload googleAutocompleteResponse
	if err := g.get(ctx, "/place/autocomplete/json", params, &payload); err != nil {
		return PredictionResult{}, &PredictionFetchError{Query: query, Err: err}
	}

	switch payload.Status {
	case googleStatusOK, googleStatusZeroResults:
	default:
		err := googleStatusError(payload.Status, payload.ErrorMessage)
		g.log.UpstreamError(googleProviderName, "autocomplete", err)
		return PredictionResult{}, &PredictionFetchError{Query: query, Err: err}
	}

	predictions := make([]Prediction, 0, len(payload.Predictions))
	for _, p := range payload.Predictions {
		if p.PlaceID == "" {
			continue
		}
		id := p.ID
		if id == "" {
			id = p.PlaceID
		}
		predictions = append(predictions, Prediction{
			ID:          id,
			Description: p.Description,
			PlaceID:     p.PlaceID,
		})
	}

	return PredictionResult{Search: query, Predictions: predictions}, nil
}

// Details calls Place Details for the formatted address and location.
func (g *Google) Details(ctx context.Context, placeID string) (Place, error) {
	if strings.TrimSpace(placeID) == "" {
		return Place{}, &DetailFetchError{PlaceID: placeID, Err: ErrInvalidPlaceID}
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "formatted_address,geometry")
	params.Set("key", g.apiKey)

	var payload googleDetailsResponse
	if err := g.get(ctx, "/place/details/json", params, &payload); err != nil {
		return Place{}, &DetailFetchError{PlaceID: placeID, Err: err}
	}

	switch payload.Status {
	case googleStatusOK:
	case googleStatusZeroResults, googleStatusNotFound:
		return Place{}, &DetailFetchError{PlaceID: placeID, Err: ErrPlaceNotFound}
	default:
		err := googleStatusError(payload.Status, payload.ErrorMessage)
		g.log.UpstreamError(googleProviderName, "details", err)
		return Place{}, &DetailFetchError{PlaceID: placeID, Err: err}
	}

	return Place{
		Address: payload.Result.FormattedAddress,
		Origin: LatLng{
			Lat: payload.Result.Geometry.Location.Lat,
			Lng: payload.Result.Geometry.Location.Lng,
		},
	}, nil
}

func (g *Google) get(ctx context.Context, path string, params url.Values, dst interface{}) error {
	reqURL := fmt.Sprintf("%s%s?%s", g.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.UpstreamError(googleProviderName, path, err)
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("upstream api error: %d", resp.StatusCode)
		g.log.UpstreamError(googleProviderName, path, err)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		g.log.Error("failed to decode google places payload", "path", path, "error", err)
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func googleStatusError(status, message string) error {
	if message != "" {
		return fmt.Errorf("places api status %s: %s", status, message)
	}
	return fmt.Errorf("places api status %s", status)
}

type googleAutocompleteResponse struct {
	Status       string                   `json:"status"`
	ErrorMessage string                   `json:"error_message"`
	Predictions  []googleAutocompleteItem `json:"predictions"`
}

type googleAutocompleteItem struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}

type googleDetailsResponse struct {
	Status       string            `json:"status"`
	ErrorMessage string            `json:"error_message"`
	Result       googlePlaceResult `json:"result"`
}

type googlePlaceResult struct {
	FormattedAddress string         `json:"formatted_address"`
	Geometry         googleGeometry `json:"geometry"`
}

type googleGeometry struct {
	Location LatLng `json:"location"`
}

var _ Provider = (*Google)(nil)
