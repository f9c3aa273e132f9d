package locationinput

import (
	"context"
	"sync"
	"testing"
	"time"

	"lckr_backend/internal/autocomplete"
	"lckr_backend/internal/events"
	"lckr_backend/internal/geocoding"
	"lckr_backend/internal/notification/sse"
	"lckr_backend/platform/apperr"
	"lckr_backend/platform/logger"
)

type testAutocompleteConfig struct {
	ttl time.Duration
}

func (c testAutocompleteConfig) GetAutocompleteDebounce() time.Duration   { return 20 * time.Millisecond }
func (c testAutocompleteConfig) GetAutocompleteSessionTTL() time.Duration { return c.ttl }

type stubProvider struct {
	predictions map[string][]geocoding.Prediction
	places      map[string]geocoding.Place
}

func (p stubProvider) Predictions(_ context.Context, query string) (geocoding.PredictionResult, error) {
	return geocoding.PredictionResult{Search: query, Predictions: p.predictions[query]}, nil
}

func (p stubProvider) Details(_ context.Context, placeID string) (geocoding.Place, error) {
	place, ok := p.places[placeID]
	if !ok {
		return geocoding.Place{}, &geocoding.DetailFetchError{PlaceID: placeID, Err: geocoding.ErrPlaceNotFound}
	}
	return place, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []sse.Event
}

func (p *recordingPublisher) Publish(topic string, event sse.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	event.Topic = topic
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []sse.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]sse.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func newStubProvider() stubProvider {
	return stubProvider{
		predictions: map[string][]geocoding.Prediction{
			"Van Pelt": {{ID: "p1", Description: "Van Pelt Library", PlaceID: "pl1"}},
		},
		places: map[string]geocoding.Place{
			"pl1": {Address: "Van Pelt-Dietrich Library, 3420 Walnut St", Origin: geocoding.LatLng{Lat: 39.952714, Lng: -75.1939328}},
		},
	}
}

func newTestService(provider geocoding.Provider, pub Publisher, bus events.Bus, ttl time.Duration) *Service {
	return NewService(provider, pub, bus, testAutocompleteConfig{ttl: ttl}, logger.Nop())
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestCreateWithoutProviderFails(t *testing.T) {
	log := logger.Nop()
	svc := newTestService(nil, &recordingPublisher{}, events.NewInMemoryBus(log), time.Minute)

	_, err := svc.Create(context.Background(), CreateSessionRequest{})
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestDispatchDrivesController(t *testing.T) {
	log := logger.Nop()
	pub := &recordingPublisher{}
	bus := events.NewInMemoryBus(log)

	var mu sync.Mutex
	var committed []events.LocationCommitted
	bus.Subscribe(events.LocationCommitted{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		committed = append(committed, e.(events.LocationCommitted))
		return nil
	}))

	svc := newTestService(newStubProvider(), pub, bus, time.Minute)
	session, err := svc.Create(context.Background(), CreateSessionRequest{Name: "pickup"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer svc.CloseAll()

	ctx := context.Background()
	if _, err := svc.Dispatch(ctx, session.ID, EventRequest{Type: EventFocus}); err != nil {
		t.Fatalf("focus: %v", err)
	}
	if _, err := svc.Dispatch(ctx, session.ID, EventRequest{Type: EventChange, Text: "Van Pelt"}); err != nil {
		t.Fatalf("change: %v", err)
	}
	waitFor(t, func() bool { return len(session.Value().Predictions) == 1 })

	resp, err := svc.Dispatch(ctx, session.ID, EventRequest{Type: EventKeyDown, Key: "Enter"})
	if err != nil {
		t.Fatalf("keydown: %v", err)
	}
	if !resp.PreventDefault {
		t.Fatal("expected enter to prevent default while nothing is selected")
	}
	waitFor(t, func() bool { return session.Value().IsResolved() })

	if _, err := svc.Dispatch(ctx, session.ID, EventRequest{Type: EventBlur}); err != nil {
		t.Fatalf("blur: %v", err)
	}
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(committed) != 1 {
		t.Fatalf("expected one committed event, got %d", len(committed))
	}
	got := committed[0]
	if got.SessionID != session.ID || got.Field != "pickup" || !got.Resolved || got.Search != "Van Pelt Library" || got.Lat != 39.952714 {
		t.Fatalf("unexpected committed event %+v", got)
	}

	types := pub.types()
	if len(types) == 0 || types[0] != sse.EventFocused {
		t.Fatalf("expected focus to be published first, got %v", types)
	}
}

func TestDispatchValidation(t *testing.T) {
	log := logger.Nop()
	svc := newTestService(newStubProvider(), &recordingPublisher{}, events.NewInMemoryBus(log), time.Minute)
	session, err := svc.Create(context.Background(), CreateSessionRequest{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer svc.CloseAll()

	cases := []EventRequest{
		{Type: EventSelect},
		{Type: EventSelectEnd},
		{Type: EventKeyDown},
		{Type: EventHighlight, Direction: "left"},
	}
	for _, req := range cases {
		if _, err := svc.Dispatch(context.Background(), session.ID, req); !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("%+v: expected validation error, got %v", req, err)
		}
	}

	index := 0
	resp, err := svc.Dispatch(context.Background(), session.ID, EventRequest{Type: EventSelect, Index: &index})
	if err != nil {
		t.Fatalf("select on empty predictions: %v", err)
	}
	if resp.Session.Value.HasSelection() {
		t.Fatal("expected select without predictions to be a no-op")
	}

	resp, err = svc.Dispatch(context.Background(), session.ID, EventRequest{Type: EventHighlight, Direction: "down"})
	if err != nil || resp.Session.State.HighlightedIndex != autocomplete.NoHighlight {
		t.Fatalf("expected highlight to stay at none without predictions, got %+v err=%v", resp.Session.State, err)
	}
}

func TestSweepClosesIdleSessions(t *testing.T) {
	log := logger.Nop()
	pub := &recordingPublisher{}
	svc := newTestService(newStubProvider(), pub, events.NewInMemoryBus(log), time.Minute)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	idle, _ := svc.Create(context.Background(), CreateSessionRequest{})
	active, _ := svc.Create(context.Background(), CreateSessionRequest{})

	now = now.Add(45 * time.Second)
	if _, err := svc.Get(active.ID); err != nil {
		t.Fatalf("get: %v", err)
	}

	now = now.Add(30 * time.Second)
	if n := svc.Sweep(); n != 1 {
		t.Fatalf("expected 1 expired session, got %d", n)
	}
	if _, err := svc.Get(idle.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected idle session to be gone, got %v", err)
	}
	if svc.Len() != 1 {
		t.Fatalf("expected 1 live session, got %d", svc.Len())
	}

	types := pub.types()
	if len(types) != 1 || types[0] != sse.EventSessionClosed {
		t.Fatalf("expected session closed event, got %v", types)
	}
}

func TestRunClosesSessionsOnShutdown(t *testing.T) {
	log := logger.Nop()
	svc := newTestService(newStubProvider(), &recordingPublisher{}, events.NewInMemoryBus(log), time.Minute)
	if _, err := svc.Create(context.Background(), CreateSessionRequest{}); err != nil {
		t.Fatalf("create: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("run did not return")
	}
	if svc.Len() != 0 {
		t.Fatalf("expected no sessions, got %d", svc.Len())
	}
}
