// Package listings implements the listing location step: preset pickup
// locations, form initial values and validation, and the location update
// sent to the marketplace API.
package listings

import (
	"errors"

	"lckr_backend/internal/autocomplete"
	"lckr_backend/internal/geocoding"
)

var (
	// ErrAddressRequired is returned when no address was entered.
	ErrAddressRequired = errors.New("address is required")
	// ErrAddressNotRecognized is returned when the entered address was not
	// resolved to a place.
	ErrAddressNotRecognized = errors.New("address not recognized")
	// ErrUnknownPreset is returned for an unknown lckrSelect key.
	ErrUnknownPreset = errors.New("unknown pickup location")
)

// Location is the listing's public address.
type Location struct {
	Address  string `json:"address"`
	Building string `json:"building,omitempty"`
}

// PublicData is the part of a listing's public data this step owns.
type PublicData struct {
	Location     *Location `json:"location,omitempty"`
	LockerSelect string    `json:"lckrSelect,omitempty"`
}

// Listing carries the listing attributes read by the location step.
type Listing struct {
	ID          string            `json:"id"`
	Geolocation *geocoding.LatLng `json:"geolocation,omitempty"`
	PublicData  PublicData        `json:"publicData"`
}

// FormValues are the location step's form values.
type FormValues struct {
	Building     string                   `json:"building,omitempty"`
	Location     *autocomplete.FieldValue `json:"location"`
	LockerSelect string                   `json:"lckrSelect,omitempty"`
}

// LocationUpdate is the listing update produced by the location step.
type LocationUpdate struct {
	Geolocation geocoding.LatLng `json:"geolocation"`
	PublicData  PublicData       `json:"publicData"`
}

// InitialValues derives form values from a stored listing. The location
// field is filled only when both the public address and the geolocation
// are present.
func InitialValues(listing Listing) FormValues {
	values := FormValues{LockerSelect: listing.PublicData.LockerSelect}

	loc := listing.PublicData.Location
	if loc == nil {
		return values
	}
	values.Building = loc.Building

	if loc.Address != "" && listing.Geolocation != nil {
		values.Location = &autocomplete.FieldValue{
			Search:        loc.Address,
			Predictions:   []geocoding.Prediction{},
			SelectedPlace: &geocoding.Place{Address: loc.Address, Origin: *listing.Geolocation},
		}
	}
	return values
}

// SearchRequired rejects an empty location field.
func SearchRequired(v *autocomplete.FieldValue) error {
	if v == nil || v.Search == "" {
		return ErrAddressRequired
	}
	return nil
}

// PlaceSelected rejects a location field whose text was never resolved to
// a place with an address.
func PlaceSelected(v *autocomplete.FieldValue) error {
	if v == nil || v.SelectedPlace == nil || v.SelectedPlace.Address == "" {
		return ErrAddressNotRecognized
	}
	return nil
}

// BuildLocationUpdate turns submitted form values into a listing update. A
// preset pickup location wins over the autocompleted address.
func BuildLocationUpdate(presets *Presets, values FormValues) (LocationUpdate, error) {
	var address string
	var origin geocoding.LatLng

	if values.LockerSelect != "" {
		preset, ok := presets.Lookup(values.LockerSelect)
		if !ok {
			return LocationUpdate{}, ErrUnknownPreset
		}
		address, origin = preset.Address, preset.Origin
	} else {
		if err := SearchRequired(values.Location); err != nil {
			return LocationUpdate{}, err
		}
		if err := PlaceSelected(values.Location); err != nil {
			return LocationUpdate{}, err
		}
		address, origin = values.Location.SelectedPlace.Address, values.Location.SelectedPlace.Origin
	}

	return LocationUpdate{
		Geolocation: origin,
		PublicData: PublicData{
			Location:     &Location{Address: address, Building: values.Building},
			LockerSelect: values.LockerSelect,
		},
	}, nil
}
