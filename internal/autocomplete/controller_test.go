package autocomplete

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"lckr_backend/internal/geocoding"
	"lckr_backend/platform/logger"
)

type fakeGeocoder struct {
	mu          sync.Mutex
	predictions map[string][]geocoding.Prediction
	places      map[string]geocoding.Place
	predictErr  error
	detailErr   error
	gates       map[string]chan struct{}
	queries     []string
	lookups     []string
}

func newFakeGeocoder() *fakeGeocoder {
	return &fakeGeocoder{
		predictions: make(map[string][]geocoding.Prediction),
		places:      make(map[string]geocoding.Place),
		gates:       make(map[string]chan struct{}),
	}
}

// hold blocks calls for key until the returned channel is closed.
func (f *fakeGeocoder) hold(key string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[key] = ch
	return ch
}

func (f *fakeGeocoder) wait(ctx context.Context, key string) error {
	f.mu.Lock()
	ch := f.gates[key]
	f.mu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeGeocoder) Predictions(ctx context.Context, query string) (geocoding.PredictionResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()

	if err := f.wait(ctx, "predict:"+query); err != nil {
		return geocoding.PredictionResult{}, &geocoding.PredictionFetchError{Query: query, Err: err}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.predictErr != nil {
		return geocoding.PredictionResult{}, &geocoding.PredictionFetchError{Query: query, Err: f.predictErr}
	}
	return geocoding.PredictionResult{Search: query, Predictions: f.predictions[query]}, nil
}

func (f *fakeGeocoder) Details(ctx context.Context, placeID string) (geocoding.Place, error) {
	f.mu.Lock()
	f.lookups = append(f.lookups, placeID)
	f.mu.Unlock()

	if err := f.wait(ctx, "details:"+placeID); err != nil {
		return geocoding.Place{}, &geocoding.DetailFetchError{PlaceID: placeID, Err: err}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.detailErr != nil {
		return geocoding.Place{}, &geocoding.DetailFetchError{PlaceID: placeID, Err: f.detailErr}
	}
	place, ok := f.places[placeID]
	if !ok {
		return geocoding.Place{}, &geocoding.DetailFetchError{PlaceID: placeID, Err: geocoding.ErrPlaceNotFound}
	}
	return place, nil
}

func (f *fakeGeocoder) recordedQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func (f *fakeGeocoder) recordedLookups() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lookups...)
}

type fakeHost struct {
	mu      sync.Mutex
	value   FieldValue
	changes chan FieldValue
	focused int
	blurs   []FieldValue
}

func newFakeHost(initial FieldValue) *fakeHost {
	return &fakeHost{value: initial, changes: make(chan FieldValue, 64)}
}

func (h *fakeHost) Name() string { return "location" }

func (h *fakeHost) Value() FieldValue {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.value
}

func (h *fakeHost) OnChange(v FieldValue) {
	h.mu.Lock()
	h.value = v
	h.mu.Unlock()
	h.changes <- v
}

func (h *fakeHost) OnFocus() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.focused++
}

func (h *fakeHost) OnBlur(v FieldValue) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.blurs = append(h.blurs, v)
}

func (h *fakeHost) blurred() []FieldValue {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]FieldValue(nil), h.blurs...)
}

func (h *fakeHost) next(t *testing.T) FieldValue {
	t.Helper()
	select {
	case v := <-h.changes:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a value change")
		return FieldValue{}
	}
}

func (h *fakeHost) expectQuiet(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case v := <-h.changes:
		t.Fatalf("unexpected value change %+v", v)
	case <-time.After(d):
	}
}

var (
	vanPeltPredictions = []geocoding.Prediction{{ID: "p1", Description: "Van Pelt Library", PlaceID: "pl1"}}
	twoPredictions     = []geocoding.Prediction{
		{ID: "p1", Description: "Van Pelt Library", PlaceID: "pl1"},
		{ID: "p2", Description: "Van Pelt Auditorium", PlaceID: "pl2"},
	}
	vanPeltPlace = geocoding.Place{
		Address: "Van Pelt-Dietrich Library, 3420 Walnut St, Philadelphia, Pennsylvania 19104, United States",
		Origin:  geocoding.LatLng{Lat: 39.952714, Lng: -75.1939328},
	}
)

func newTestController(t *testing.T, host Host, geo *fakeGeocoder) *Controller {
	t.Helper()
	c, err := New(host, geo, geo, Options{Debounce: 30 * time.Millisecond})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func assertValue(t *testing.T, want, got FieldValue) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	geo := newFakeGeocoder()
	host := newFakeHost(FieldValue{})

	if _, err := New(host, nil, geo, Options{}); !errors.Is(err, ErrProviderMissing) {
		t.Fatalf("expected ErrProviderMissing, got %v", err)
	}
	if _, err := New(host, geo, nil, Options{}); !errors.Is(err, ErrProviderMissing) {
		t.Fatalf("expected ErrProviderMissing, got %v", err)
	}
	if _, err := New(nil, geo, geo, Options{}); !errors.Is(err, ErrHostMissing) {
		t.Fatalf("expected ErrHostMissing, got %v", err)
	}
}

func TestSelectionResolvesPlace(t *testing.T) {
	geo := newFakeGeocoder()
	geo.predictions["Van Pelt"] = vanPeltPredictions
	geo.places["pl1"] = vanPeltPlace
	host := newFakeHost(FieldValue{})
	c := newTestController(t, host, geo)

	c.Change("Van Pelt")
	assertValue(t, FieldValue{Search: "Van Pelt"}, host.next(t))
	assertValue(t, FieldValue{Search: "Van Pelt", Predictions: vanPeltPredictions}, host.next(t))

	c.SelectItem(0)
	assertValue(t, FieldValue{Search: "Van Pelt", Predictions: vanPeltPredictions, SelectedPlaceID: "pl1"}, host.next(t))

	place := vanPeltPlace
	assertValue(t, FieldValue{
		Search:          "Van Pelt Library",
		Predictions:     []geocoding.Prediction{},
		SelectedPlaceID: "pl1",
		SelectedPlace:   &place,
	}, host.next(t))
}

func TestStalePredictionsAreDiscarded(t *testing.T) {
	geo := newFakeGeocoder()
	geo.predictions["V"] = []geocoding.Prediction{{ID: "v1", Description: "Vancouver", PlaceID: "plV"}}
	geo.predictions["Van"] = vanPeltPredictions
	releaseV := geo.hold("predict:V")
	host := newFakeHost(FieldValue{})
	c := newTestController(t, host, geo)

	c.Change("V")
	assertValue(t, FieldValue{Search: "V"}, host.next(t))
	c.Change("Van")
	assertValue(t, FieldValue{Search: "Van"}, host.next(t))

	// Trailing request for "Van" completes first.
	assertValue(t, FieldValue{Search: "Van", Predictions: vanPeltPredictions}, host.next(t))

	close(releaseV)
	host.expectQuiet(t, 100*time.Millisecond)

	if diff := cmp.Diff([]string{"V", "Van"}, geo.recordedQueries()); diff != "" {
		t.Fatalf("unexpected requests (-want +got):\n%s", diff)
	}
	assertValue(t, FieldValue{Search: "Van", Predictions: vanPeltPredictions}, host.Value())
}

func TestClearingInputIssuesNoRequest(t *testing.T) {
	geo := newFakeGeocoder()
	host := newFakeHost(FieldValue{Search: "V", Predictions: vanPeltPredictions})
	c := newTestController(t, host, geo)

	c.Change("")
	assertValue(t, FieldValue{Search: "", Predictions: []geocoding.Prediction{}}, host.next(t))
	host.expectQuiet(t, 80*time.Millisecond)

	if got := geo.recordedQueries(); len(got) != 0 {
		t.Fatalf("expected no requests, got %v", got)
	}
}

func TestPredictionFailureKeepsPredictions(t *testing.T) {
	geo := newFakeGeocoder()
	geo.predictErr = errors.New("quota exceeded")
	host := newFakeHost(FieldValue{Search: "Va", Predictions: vanPeltPredictions, SelectedPlaceID: "pl1"})
	c := newTestController(t, host, geo)

	c.Change("Van")
	assertValue(t, FieldValue{Search: "Van", Predictions: vanPeltPredictions}, host.next(t))
	assertValue(t, FieldValue{Search: "Van", Predictions: vanPeltPredictions}, host.next(t))
}

func TestDetailFailureRevertsSelection(t *testing.T) {
	geo := newFakeGeocoder()
	geo.detailErr = errors.New("invalid key")
	initial := FieldValue{Search: "Van Pelt", Predictions: vanPeltPredictions}
	host := newFakeHost(initial)
	c := newTestController(t, host, geo)

	c.SelectItem(0)
	assertValue(t, FieldValue{Search: "Van Pelt", Predictions: vanPeltPredictions, SelectedPlaceID: "pl1"}, host.next(t))
	assertValue(t, initial, host.next(t))
}

func TestSelectItemOutOfRangeIsNoop(t *testing.T) {
	geo := newFakeGeocoder()
	initial := FieldValue{Search: "Van Pelt", Predictions: vanPeltPredictions}
	host := newFakeHost(initial)
	c := newTestController(t, host, geo)

	c.SelectItem(1)
	c.SelectItem(-1)
	host.expectQuiet(t, 50*time.Millisecond)

	assertValue(t, initial, host.Value())
	if got := geo.recordedLookups(); len(got) != 0 {
		t.Fatalf("expected no lookups, got %v", got)
	}
}

func TestLateDetailsAfterTypingAreDiscarded(t *testing.T) {
	geo := newFakeGeocoder()
	geo.places["pl1"] = vanPeltPlace
	release := geo.hold("details:pl1")
	host := newFakeHost(FieldValue{Search: "Van Pelt", Predictions: vanPeltPredictions})
	c := newTestController(t, host, geo)

	c.SelectItem(0)
	if got := host.next(t); got.SelectedPlaceID != "pl1" {
		t.Fatalf("expected provisional selection, got %+v", got)
	}

	c.Change("Van Pelt L")
	assertValue(t, FieldValue{Search: "Van Pelt L", Predictions: vanPeltPredictions}, host.next(t))
	assertValue(t, FieldValue{Search: "Van Pelt L", Predictions: []geocoding.Prediction{}}, host.next(t))

	close(release)
	host.expectQuiet(t, 100*time.Millisecond)

	if host.Value().IsResolved() {
		t.Fatalf("expected late details to be dropped, got %+v", host.Value())
	}
}

func TestKeyboardNavigationAndEnter(t *testing.T) {
	geo := newFakeGeocoder()
	geo.places["pl2"] = vanPeltPlace
	host := newFakeHost(FieldValue{Search: "Van", Predictions: twoPredictions})
	c := newTestController(t, host, geo)

	if !c.KeyDown(KeyArrowDown) {
		t.Fatal("expected arrow down to prevent default")
	}
	if got := c.State().HighlightedIndex; got != 0 {
		t.Fatalf("expected highlight 0, got %d", got)
	}
	c.KeyDown(KeyArrowDown)
	c.KeyDown(KeyArrowDown)
	if got := c.State().HighlightedIndex; got != 1 {
		t.Fatalf("expected highlight clamped to 1, got %d", got)
	}
	if c.KeyDown(KeyOther) {
		t.Fatal("expected other keys to keep their default")
	}

	if !c.KeyDown(KeyEnter) {
		t.Fatal("expected enter to prevent form submission")
	}
	if got := host.next(t); got.SelectedPlaceID != "pl2" {
		t.Fatalf("expected highlighted prediction to be selected, got %+v", got)
	}
	final := host.next(t)
	if final.Search != "Van Pelt Auditorium" || !final.IsResolved() {
		t.Fatalf("unexpected resolved value %+v", final)
	}

	if c.KeyDown(KeyEnter) {
		t.Fatal("expected enter to submit once a place is resolved")
	}
}

func TestTabSelectsFirstPrediction(t *testing.T) {
	geo := newFakeGeocoder()
	geo.places["pl1"] = vanPeltPlace
	host := newFakeHost(FieldValue{Search: "Van", Predictions: twoPredictions})
	c := newTestController(t, host, geo)

	if c.KeyDown(KeyTab) {
		t.Fatal("expected tab to keep its default")
	}
	if got := host.next(t); got.SelectedPlaceID != "pl1" {
		t.Fatalf("expected first prediction to be selected, got %+v", got)
	}
}

func TestEnterWithoutSearchSubmits(t *testing.T) {
	geo := newFakeGeocoder()
	host := newFakeHost(FieldValue{})
	c := newTestController(t, host, geo)

	if c.KeyDown(KeyEnter) {
		t.Fatal("expected enter to submit an empty field")
	}
	host.expectQuiet(t, 30*time.Millisecond)
}

func TestBlurFinalizes(t *testing.T) {
	geo := newFakeGeocoder()
	initial := FieldValue{Search: "Van", Predictions: twoPredictions}
	host := newFakeHost(initial)
	c := newTestController(t, host, geo)

	c.Focus()
	c.KeyDown(KeyArrowDown)
	c.Blur()

	state := c.State()
	if state.InputHasFocus || state.HighlightedIndex != NoHighlight {
		t.Fatalf("expected finalized state, got %+v", state)
	}
	blurs := host.blurred()
	if len(blurs) != 1 {
		t.Fatalf("expected one blur, got %d", len(blurs))
	}
	assertValue(t, initial, blurs[0])
	if host.focused != 1 {
		t.Fatalf("expected one focus notification, got %d", host.focused)
	}
}

func TestBlurDeferredDuringPointerSelection(t *testing.T) {
	geo := newFakeGeocoder()
	geo.places["pl1"] = vanPeltPlace
	host := newFakeHost(FieldValue{Search: "Van Pelt", Predictions: vanPeltPredictions})
	c := newTestController(t, host, geo)

	c.Focus()
	c.SelectStart()
	c.Blur()
	if got := len(host.blurred()); got != 0 {
		t.Fatalf("expected blur to be deferred, got %d blurs", got)
	}

	c.SelectEnd(0)
	blurs := host.blurred()
	if len(blurs) != 1 || blurs[0].SelectedPlaceID != "pl1" {
		t.Fatalf("expected finalize with provisional selection, got %+v", blurs)
	}
	state := c.State()
	if state.SelectionInProgress || state.InputHasFocus {
		t.Fatalf("unexpected state after select end %+v", state)
	}

	host.next(t)
	if final := host.next(t); !final.IsResolved() {
		t.Fatalf("expected resolved place, got %+v", final)
	}
}

func TestCloseCancelsInFlightFetches(t *testing.T) {
	geo := newFakeGeocoder()
	geo.hold("predict:Van")
	host := newFakeHost(FieldValue{})
	c, err := New(host, geo, geo, Options{Debounce: 30 * time.Millisecond})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	c.Change("Van")
	host.next(t)

	c.Close()
	c.Close()
	host.expectQuiet(t, 60*time.Millisecond)

	c.Change("Vanx")
	host.expectQuiet(t, 30*time.Millisecond)
}

// stalledUpstream ignores cancellation, like an HTTP call running under a
// detached context.
type stalledUpstream struct {
	release chan struct{}
}

func (u stalledUpstream) Predictions(_ context.Context, query string) (geocoding.PredictionResult, error) {
	<-u.release
	return geocoding.PredictionResult{Search: query}, nil
}

func (u stalledUpstream) Details(_ context.Context, placeID string) (geocoding.Place, error) {
	<-u.release
	return geocoding.Place{}, nil
}

func TestCloseDoesNotWaitForSharedUpstreamCall(t *testing.T) {
	upstream := stalledUpstream{release: make(chan struct{})}
	defer close(upstream.release)
	svc := geocoding.NewService(upstream, geocoding.NewMemoryCache(), time.Minute, logger.Nop())

	host := newFakeHost(FieldValue{})
	c, err := New(host, svc, svc, Options{Debounce: 30 * time.Millisecond})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	c.Change("Van")
	host.next(t)

	done := make(chan struct{})
	go func() {
		c.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Close blocked on the in-flight upstream call")
	}
	host.expectQuiet(t, 30*time.Millisecond)
}
