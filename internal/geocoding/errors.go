package geocoding

import (
	"errors"
	"fmt"
)

var (
	// ErrPredictionFetch marks every failure to fetch predictions.
	ErrPredictionFetch = errors.New("geocoding: prediction fetch failed")
	// ErrDetailFetch marks every failure to resolve place details.
	ErrDetailFetch = errors.New("geocoding: detail fetch failed")
	// ErrPlaceNotFound is returned when the provider knows no place for an ID.
	ErrPlaceNotFound = errors.New("geocoding: place not found")
	// ErrInvalidPlaceID is returned for IDs the provider cannot have issued.
	ErrInvalidPlaceID = errors.New("geocoding: invalid place id")
)

// PredictionFetchError reports a failed prediction request.
type PredictionFetchError struct {
	Query string
	Err   error
}

func (e *PredictionFetchError) Error() string {
	return fmt.Sprintf("predictions for %q: %v", e.Query, e.Err)
}

// Unwrap exposes both the ErrPredictionFetch marker and the cause.
func (e *PredictionFetchError) Unwrap() []error {
	return []error{ErrPredictionFetch, e.Err}
}

// DetailFetchError reports a failed place detail request.
type DetailFetchError struct {
	PlaceID string
	Err     error
}

func (e *DetailFetchError) Error() string {
	return fmt.Sprintf("details for place %q: %v", e.PlaceID, e.Err)
}

// Unwrap exposes both the ErrDetailFetch marker and the cause.
func (e *DetailFetchError) Unwrap() []error {
	return []error{ErrDetailFetch, e.Err}
}
