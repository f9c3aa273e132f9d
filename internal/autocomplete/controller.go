package autocomplete

import (
	"context"
	"errors"
	"sync"
	"time"

	"lckr_backend/internal/geocoding"
	"lckr_backend/platform/logger"
)

// DefaultDebounce is the prediction debounce window.
const DefaultDebounce = 200 * time.Millisecond

var (
	// ErrProviderMissing is returned by New when no geocoding provider is wired.
	ErrProviderMissing = errors.New("autocomplete: geocoding provider is required")
	// ErrHostMissing is returned by New without a field host.
	ErrHostMissing = errors.New("autocomplete: field host is required")
)

// Host is the form field that owns the authoritative FieldValue. The
// controller calls it while holding its own lock, so implementations must
// not call back into the controller synchronously.
type Host interface {
	Name() string
	Value() FieldValue
	OnChange(FieldValue)
	OnFocus()
	OnBlur(FieldValue)
}

// Options tunes a Controller.
type Options struct {
	Debounce time.Duration
	Logger   *logger.Logger
}

// Controller drives a location input field. All event handlers and fetch
// completions are serialized on one mutex. Stale fetch results are detected
// by comparing them to the host's current value, never by cancellation.
type Controller struct {
	mu        sync.Mutex
	host      Host
	predictor geocoding.Predictor
	resolver  geocoding.Resolver
	log       *logger.Logger
	ui        UIState
	predict   *Debouncer[string]

	ctx    context.Context
	cancel context.CancelFunc

	lifeMu sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New mounts a controller on host.
func New(host Host, predictor geocoding.Predictor, resolver geocoding.Resolver, opts Options) (*Controller, error) {
	if predictor == nil || resolver == nil {
		return nil, ErrProviderMissing
	}
	if host == nil {
		return nil, ErrHostMissing
	}

	window := opts.Debounce
	if window <= 0 {
		window = DefaultDebounce
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		host:      host,
		predictor: predictor,
		resolver:  resolver,
		log:       log,
		ui:        InitialUIState(),
		ctx:       ctx,
		cancel:    cancel,
	}
	c.predict = NewDebouncer(window, c.fetchPredictions)
	return c, nil
}

// State returns a snapshot of the interaction state.
func (c *Controller) State() UIState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ui
}

// KeyDown handles a key press and reports whether the key's default action
// (cursor movement, form submission) should be suppressed.
func (c *Controller) KeyDown(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done() {
		return false
	}

	switch key {
	case KeyArrowUp:
		c.highlightLocked(DirectionUp)
		return true
	case KeyArrowDown:
		c.highlightLocked(DirectionDown)
		return true
	case KeyEnter:
		value := c.host.Value()
		if value.Search != "" && !value.IsResolved() {
			c.selectItemIfNoneSelectedLocked()
			return true
		}
		return false
	case KeyTab:
		c.selectItemIfNoneSelectedLocked()
		return false
	default:
		return false
	}
}

// Change handles new input text. Any selection is invalidated; previous
// predictions are kept while text is non-empty.
func (c *Controller) Change(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done() {
		return
	}

	predictions := noPredictions()
	if text != "" {
		predictions = c.host.Value().Predictions
	}
	c.host.OnChange(FieldValue{Search: text, Predictions: predictions})
	c.apply(UIEvent{Kind: EventResetHighlight})

	if text == "" {
		return
	}
	c.predict.Call(text)
}

// Highlight moves the keyboard highlight.
func (c *Controller) Highlight(dir Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done() {
		return
	}
	c.highlightLocked(dir)
}

// Focus marks the input as focused and notifies the host.
func (c *Controller) Focus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done() {
		return
	}
	c.apply(UIEvent{Kind: EventFocus})
	c.host.OnFocus()
}

// Blur finalizes the field unless a pointer selection is in progress, in
// which case SelectEnd finalizes.
func (c *Controller) Blur() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done() || c.ui.SelectionInProgress {
		return
	}
	c.finalizeLocked()
}

// SelectStart marks the beginning of a pointer or touch selection.
func (c *Controller) SelectStart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done() {
		return
	}
	c.apply(UIEvent{Kind: EventSelectStart})
}

// SelectEnd completes a pointer or touch selection of the prediction at
// index and finalizes the field.
func (c *Controller) SelectEnd(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done() {
		return
	}
	c.apply(UIEvent{Kind: EventSelectEnd})
	c.selectItemLocked(index)
	c.finalizeLocked()
}

// SelectItem selects the prediction at index and resolves its details.
// Out of range indexes are ignored.
func (c *Controller) SelectItem(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done() {
		return
	}
	c.selectItemLocked(index)
}

// SelectItemIfNoneSelected selects the highlighted prediction, or the first
// one, when there is search text and no selection yet.
func (c *Controller) SelectItemIfNoneSelected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done() {
		return
	}
	c.selectItemIfNoneSelectedLocked()
}

// Close unmounts the controller: the pending debounce is dropped, in-flight
// fetches are cancelled and Close waits for them to return. Later events
// are ignored.
func (c *Controller) Close() {
	c.predict.Cancel()

	c.lifeMu.Lock()
	if c.closed {
		c.lifeMu.Unlock()
		return
	}
	c.closed = true
	c.cancel()
	c.lifeMu.Unlock()

	c.wg.Wait()
}

func (c *Controller) done() bool {
	return c.ctx.Err() != nil
}

func (c *Controller) apply(e UIEvent) {
	c.ui = Reduce(c.ui, e)
}

func (c *Controller) highlightLocked(dir Direction) {
	c.apply(UIEvent{Kind: EventHighlight, Direction: dir, Count: len(c.host.Value().Predictions)})
}

func (c *Controller) finalizeLocked() {
	c.apply(UIEvent{Kind: EventFinalize})
	c.host.OnBlur(c.host.Value())
}

func (c *Controller) selectItemIfNoneSelectedLocked() {
	value := c.host.Value()
	if value.Search == "" || value.HasSelection() {
		return
	}
	index := c.ui.HighlightedIndex
	if index == NoHighlight {
		index = 0
	}
	c.selectItemLocked(index)
}

func (c *Controller) selectItemLocked(index int) {
	value := c.host.Value()
	if index < 0 || index >= len(value.Predictions) {
		return
	}
	prediction := value.Predictions[index]

	provisional := value
	provisional.SelectedPlaceID = prediction.PlaceID
	provisional.SelectedPlace = nil
	c.host.OnChange(provisional)

	c.spawn(func(ctx context.Context) {
		place, err := c.resolver.Details(ctx, prediction.PlaceID)
		c.completeSelection(prediction, place, err)
	})
}

// fetchPredictions is the debounced callback. It never takes c.mu because
// the leading call runs inside Change.
func (c *Controller) fetchPredictions(query string) {
	c.spawn(func(ctx context.Context) {
		result, err := c.predictor.Predictions(ctx, query)
		c.completePredictions(query, result, err)
	})
}

func (c *Controller) completePredictions(query string, result geocoding.PredictionResult, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done() {
		return
	}

	current := c.host.Value()
	if err != nil {
		c.log.Warn("location predictions failed", "field", c.host.Name(), "query", query, "error", err)
		c.host.OnChange(current.withoutSelection())
		return
	}
	if result.Search != current.Search {
		c.log.Debug("discarding stale predictions", "field", c.host.Name(), "query", result.Search, "current", current.Search)
		return
	}

	predictions := result.Predictions
	if predictions == nil {
		predictions = noPredictions()
	}
	c.host.OnChange(FieldValue{Search: result.Search, Predictions: predictions})
	c.apply(UIEvent{Kind: EventResetHighlight})
}

func (c *Controller) completeSelection(prediction geocoding.Prediction, place geocoding.Place, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done() {
		return
	}

	current := c.host.Value()
	if err != nil {
		if current.HasSelection() && current.SelectedPlaceID != prediction.PlaceID {
			// A newer selection owns the field.
			return
		}
		c.log.Warn("location details failed", "field", c.host.Name(), "placeId", prediction.PlaceID, "error", err)
		c.host.OnChange(current.withoutSelection())
		return
	}
	if current.SelectedPlaceID != prediction.PlaceID {
		c.log.Debug("discarding late place details", "field", c.host.Name(), "placeId", prediction.PlaceID)
		return
	}

	resolved := place
	c.host.OnChange(FieldValue{
		Search:          prediction.Description,
		Predictions:     noPredictions(),
		SelectedPlaceID: prediction.PlaceID,
		SelectedPlace:   &resolved,
	})
}

// spawn runs fn on its own goroutine under the controller's lifecycle
// context. It is a no-op after Close.
func (c *Controller) spawn(fn func(ctx context.Context)) {
	c.lifeMu.Lock()
	if c.closed {
		c.lifeMu.Unlock()
		return
	}
	c.wg.Add(1)
	c.lifeMu.Unlock()

	go func() {
		defer c.wg.Done()
		fn(c.ctx)
	}()
}
