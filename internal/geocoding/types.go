// Package geocoding provides place predictions and place detail resolution
// on top of an external geocoding provider.
package geocoding

import "context"

// LatLng is a geographic coordinate in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Prediction is a candidate place for a partial text query.
type Prediction struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	PlaceID     string `json:"placeId"`
}

// Place is a fully resolved location.
type Place struct {
	Address string `json:"address"`
	Origin  LatLng `json:"origin"`
}

// PredictionResult carries the predictions for a query together with the
// query itself, echoed exactly as it was passed in.
type PredictionResult struct {
	Search      string       `json:"search"`
	Predictions []Prediction `json:"predictions"`
}

// Predictor returns place predictions for free-text input.
type Predictor interface {
	Predictions(ctx context.Context, query string) (PredictionResult, error)
}

// Resolver resolves a prediction's place ID into full place details.
type Resolver interface {
	Details(ctx context.Context, placeID string) (Place, error)
}

// Provider is a geocoding backend offering both operations.
type Provider interface {
	Predictor
	Resolver
}
