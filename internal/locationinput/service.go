package locationinput

import (
	"context"
	"errors"
	"sync"
	"time"

	"lckr_backend/internal/autocomplete"
	"lckr_backend/internal/events"
	"lckr_backend/internal/geocoding"
	"lckr_backend/internal/notification/sse"
	"lckr_backend/platform/apperr"
	"lckr_backend/platform/config"
	"lckr_backend/platform/logger"
	"lckr_backend/platform/sanitize"

	"github.com/google/uuid"
)

const defaultFieldName = "location"

// Service owns the live sessions. Sessions idle for longer than the
// configured TTL are closed by Run.
type Service struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	provider  geocoding.Provider
	publisher Publisher
	bus       events.Bus
	debounce  time.Duration
	ttl       time.Duration
	now       func() time.Time
	log       *logger.Logger
}

// NewService creates the session service.
func NewService(provider geocoding.Provider, publisher Publisher, bus events.Bus, cfg config.AutocompleteConfig, log *logger.Logger) *Service {
	return &Service{
		sessions:  make(map[uuid.UUID]*Session),
		provider:  provider,
		publisher: publisher,
		bus:       bus,
		debounce:  cfg.GetAutocompleteDebounce(),
		ttl:       cfg.GetAutocompleteSessionTTL(),
		now:       time.Now,
		log:       log,
	}
}

// Create mounts a controller on a new session.
func (s *Service) Create(_ context.Context, req CreateSessionRequest) (*Session, error) {
	name := sanitize.Text(req.Name)
	if name == "" {
		name = defaultFieldName
	}

	session := &Session{
		ID:        uuid.New(),
		name:      name,
		value:     autocomplete.FieldValue{Search: sanitize.SearchInput(req.Search), Predictions: []geocoding.Prediction{}},
		lastSeen:  s.now(),
		publisher: s.publisher,
		bus:       s.bus,
		log:       s.log,
	}

	var predictor geocoding.Predictor
	var resolver geocoding.Resolver
	if s.provider != nil {
		predictor, resolver = s.provider, s.provider
	}
	controller, err := autocomplete.New(session, predictor, resolver, autocomplete.Options{
		Debounce: s.debounce,
		Logger:   s.log.WithSessionID(session.ID.String()),
	})
	if err != nil {
		if errors.Is(err, autocomplete.ErrProviderMissing) {
			return nil, apperr.Wrap(apperr.KindInternal, "geocoding provider is not configured", err)
		}
		return nil, err
	}
	session.controller = controller

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.log.Info("location input session created", "sessionId", session.ID, "field", name)
	return session, nil
}

// Get returns a live session and marks it as active.
func (s *Service) Get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, apperr.NotFound("location input session not found")
	}
	session.touch(s.now())
	return session, nil
}

// Dispatch feeds one input event to the session's controller.
func (s *Service) Dispatch(_ context.Context, id uuid.UUID, req EventRequest) (EventResponse, error) {
	session, err := s.Get(id)
	if err != nil {
		return EventResponse{}, err
	}
	c := session.controller

	var prevent bool
	switch req.Type {
	case EventChange:
		c.Change(sanitize.SearchInput(req.Text))
	case EventKeyDown:
		if req.Key == "" {
			return EventResponse{}, apperr.Validation("key is required for keydown events")
		}
		prevent = c.KeyDown(autocomplete.ParseKey(req.Key))
	case EventFocus:
		c.Focus()
	case EventBlur:
		c.Blur()
	case EventSelectStart:
		c.SelectStart()
	case EventSelectEnd, EventSelect:
		if req.Index == nil {
			return EventResponse{}, apperr.Validation("index is required for " + req.Type + " events")
		}
		if req.Type == EventSelectEnd {
			c.SelectEnd(*req.Index)
		} else {
			c.SelectItem(*req.Index)
		}
	case EventHighlight:
		switch req.Direction {
		case "up":
			c.Highlight(autocomplete.DirectionUp)
		case "down":
			c.Highlight(autocomplete.DirectionDown)
		default:
			return EventResponse{}, apperr.Validation("direction must be up or down")
		}
	default:
		return EventResponse{}, apperr.BadRequest("unknown event type " + req.Type)
	}

	return EventResponse{PreventDefault: prevent, Session: session.Snapshot()}, nil
}

// Close unmounts and forgets a session.
func (s *Service) Close(id uuid.UUID) error {
	s.mu.Lock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return apperr.NotFound("location input session not found")
	}

	s.closeSession(session)
	return nil
}

// Sweep closes sessions idle for longer than the TTL and returns how many
// were closed.
func (s *Service) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	var expired []*Session
	s.mu.Lock()
	for id, session := range s.sessions {
		if session.idleSince().Before(cutoff) {
			expired = append(expired, session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, session := range expired {
		s.closeSession(session)
	}
	if len(expired) > 0 {
		s.log.Info("expired idle location input sessions", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps idle sessions until ctx is done, then closes every session.
func (s *Service) Run(ctx context.Context) error {
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.CloseAll()
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// CloseAll unmounts every session.
func (s *Service) CloseAll() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[uuid.UUID]*Session)
	s.mu.Unlock()

	for _, session := range sessions {
		s.closeSession(session)
	}
}

// Len returns the number of live sessions.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Service) closeSession(session *Session) {
	session.controller.Close()
	s.publisher.Publish(session.ID.String(), sse.Event{Type: sse.EventSessionClosed})
}
