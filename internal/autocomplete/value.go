// Package autocomplete implements the location predictive input controller:
// debounced place predictions, keyboard highlight, and selection resolution
// over a geocoding provider, reported to a form field host.
package autocomplete

import "lckr_backend/internal/geocoding"

// FieldValue is the externally visible state of a location field. It is
// replaced wholesale on every change and never mutated after publication.
type FieldValue struct {
	Search      string                 `json:"search"`
	Predictions []geocoding.Prediction `json:"predictions"`
	// SelectedPlaceID is empty when nothing is selected.
	SelectedPlaceID string `json:"selectedPlaceId,omitempty"`
	// SelectedPlace is set only once SelectedPlaceID has been resolved.
	SelectedPlace *geocoding.Place `json:"selectedPlace,omitempty"`
}

// HasSelection reports whether a place is provisionally or fully selected.
func (v FieldValue) HasSelection() bool {
	return v.SelectedPlaceID != ""
}

// IsResolved reports whether the selected place has been resolved.
func (v FieldValue) IsResolved() bool {
	return v.SelectedPlace != nil
}

func (v FieldValue) withoutSelection() FieldValue {
	v.SelectedPlaceID = ""
	v.SelectedPlace = nil
	return v
}

func noPredictions() []geocoding.Prediction {
	return []geocoding.Prediction{}
}
