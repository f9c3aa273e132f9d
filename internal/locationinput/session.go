// Package locationinput hosts location autocomplete controllers behind HTTP
// sessions. Each session owns one field value; clients drive it with input
// events and follow value changes over SSE.
package locationinput

import (
	"context"
	"sync"
	"time"

	"lckr_backend/internal/autocomplete"
	"lckr_backend/internal/events"
	"lckr_backend/internal/notification/sse"
	"lckr_backend/platform/logger"

	"github.com/google/uuid"
)

// Publisher pushes session updates to connected clients.
type Publisher interface {
	Publish(topic string, event sse.Event)
}

// Session is a form field host for one autocomplete controller.
type Session struct {
	ID   uuid.UUID
	name string

	mu       sync.Mutex
	value    autocomplete.FieldValue
	lastSeen time.Time

	controller *autocomplete.Controller
	publisher  Publisher
	bus        events.Bus
	log        *logger.Logger
}

// Name implements autocomplete.Host.
func (s *Session) Name() string { return s.name }

// Value implements autocomplete.Host.
func (s *Session) Value() autocomplete.FieldValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// OnChange implements autocomplete.Host.
func (s *Session) OnChange(v autocomplete.FieldValue) {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()

	s.publisher.Publish(s.ID.String(), sse.Event{Type: sse.EventValueChanged, Data: v})
}

// OnFocus implements autocomplete.Host.
func (s *Session) OnFocus() {
	s.publisher.Publish(s.ID.String(), sse.Event{Type: sse.EventFocused})
}

// OnBlur implements autocomplete.Host. The committed value is announced on
// the event bus.
func (s *Session) OnBlur(v autocomplete.FieldValue) {
	event := events.LocationCommitted{
		BaseEvent: events.NewBaseEvent(),
		SessionID: s.ID,
		Field:     s.name,
		Search:    v.Search,
		PlaceID:   v.SelectedPlaceID,
		Resolved:  v.IsResolved(),
	}
	if v.SelectedPlace != nil {
		event.Address = v.SelectedPlace.Address
		event.Lat = v.SelectedPlace.Origin.Lat
		event.Lng = v.SelectedPlace.Origin.Lng
	}
	s.bus.Publish(context.Background(), event)
	s.log.Debug("location input finalized", "sessionId", s.ID, "field", s.name, "resolved", event.Resolved)
}

// Snapshot returns the session's current value and interaction state. It
// must not be called from a host callback.
func (s *Session) Snapshot() SessionResponse {
	return SessionResponse{
		ID:    s.ID,
		Name:  s.name,
		Value: s.Value(),
		State: s.controller.State(),
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

var _ autocomplete.Host = (*Session)(nil)
