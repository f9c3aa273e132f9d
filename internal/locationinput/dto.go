package locationinput

import (
	"lckr_backend/internal/autocomplete"

	"github.com/google/uuid"
)

// Event types accepted by POST /location-inputs/:id/events.
const (
	EventChange      = "change"
	EventKeyDown     = "keydown"
	EventFocus       = "focus"
	EventBlur        = "blur"
	EventSelectStart = "selectStart"
	EventSelectEnd   = "selectEnd"
	EventSelect      = "select"
	EventHighlight   = "highlight"
)

// CreateSessionRequest opens a session, optionally seeded with search text.
type CreateSessionRequest struct {
	Name   string `json:"name" validate:"omitempty,max=64"`
	Search string `json:"search" validate:"max=256"`
}

// EventRequest is one input event. Index is required for select and
// selectEnd; Direction for highlight.
type EventRequest struct {
	Type      string `json:"type" validate:"required,oneof=change keydown focus blur selectStart selectEnd select highlight"`
	Text      string `json:"text" validate:"max=256"`
	Key       string `json:"key" validate:"omitempty,max=32"`
	Index     *int   `json:"index" validate:"omitempty,min=-1"`
	Direction string `json:"direction" validate:"omitempty,oneof=up down"`
}

// SessionResponse is a session snapshot.
type SessionResponse struct {
	ID    uuid.UUID               `json:"id"`
	Name  string                  `json:"name"`
	Value autocomplete.FieldValue `json:"value"`
	State autocomplete.UIState    `json:"state"`
}

// EventResponse reports whether the event's default action should be
// suppressed, plus the session state right after dispatch. Fetches started
// by the event complete later and arrive over the stream.
type EventResponse struct {
	PreventDefault bool            `json:"preventDefault"`
	Session        SessionResponse `json:"session"`
}
