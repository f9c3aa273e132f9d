// Package events defines what the location input sessions and the listing
// service announce: a committed location and a saved listing location.
// The bus itself lives in platform/events.
package events

import (
	"lckr_backend/platform/events"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	Keyed       = events.Keyed
)

var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Location Input Events
// =============================================================================

// LocationCommitted is published when a location input session finalizes,
// i.e. the field lost focus and reported its value to the host.
type LocationCommitted struct {
	BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
	Field     string    `json:"field"`
	Search    string    `json:"search"`
	PlaceID   string    `json:"placeId,omitempty"`
	Address   string    `json:"address,omitempty"`
	Lat       float64   `json:"lat,omitempty"`
	Lng       float64   `json:"lng,omitempty"`
	Resolved  bool      `json:"resolved"`
}

func (e LocationCommitted) EventName() string { return "locationinput.committed" }

// EventKey is the session the location was committed in.
func (e LocationCommitted) EventKey() string { return e.SessionID.String() }

// =============================================================================
// Listing Events
// =============================================================================

// ListingLocationUpdated is published after a listing's location step has
// been saved to the marketplace.
type ListingLocationUpdated struct {
	BaseEvent
	ListingID    string  `json:"listingId"`
	Address      string  `json:"address"`
	Building     string  `json:"building,omitempty"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	LockerSelect string  `json:"lckrSelect,omitempty"`
}

func (e ListingLocationUpdated) EventName() string { return "listings.location.updated" }

func (e ListingLocationUpdated) EventKey() string { return e.ListingID }

var (
	_ Keyed = LocationCommitted{}
	_ Keyed = ListingLocationUpdated{}
)
