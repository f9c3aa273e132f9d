package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"lckr_backend/internal/autocomplete"
	"lckr_backend/internal/geocoding"
	"lckr_backend/platform/logger"
)

var (
	errNoPredictions = errors.New("no predictions")
	errNotResolved   = errors.New("prediction could not be resolved")
)

// headlessHost holds the field value in memory and signals every change.
type headlessHost struct {
	mu        sync.Mutex
	value     autocomplete.FieldValue
	version   int
	changed   chan struct{}
	committed *autocomplete.FieldValue
}

func newHeadlessHost() *headlessHost {
	return &headlessHost{
		value:   autocomplete.FieldValue{Predictions: []geocoding.Prediction{}},
		changed: make(chan struct{}, 1),
	}
}

func (h *headlessHost) Name() string { return "location" }

func (h *headlessHost) Value() autocomplete.FieldValue {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.value
}

func (h *headlessHost) OnChange(v autocomplete.FieldValue) {
	h.mu.Lock()
	h.value = v
	h.version++
	h.mu.Unlock()
	select {
	case h.changed <- struct{}{}:
	default:
	}
}

func (h *headlessHost) OnFocus() {}

func (h *headlessHost) OnBlur(v autocomplete.FieldValue) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.committed = &v
}

func (h *headlessHost) snapshot() (autocomplete.FieldValue, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.value, h.version
}

// waitForChange blocks until a value newer than version is published.
func (h *headlessHost) waitForChange(ctx context.Context, version int) (autocomplete.FieldValue, error) {
	for {
		if v, current := h.snapshot(); current > version {
			return v, nil
		}
		select {
		case <-h.changed:
		case <-ctx.Done():
			return h.Value(), ctx.Err()
		}
	}
}

// waitFor blocks until cond holds for the current value.
func (h *headlessHost) waitFor(ctx context.Context, cond func(autocomplete.FieldValue) bool) (autocomplete.FieldValue, error) {
	for {
		if v := h.Value(); cond(v) {
			return v, nil
		}
		select {
		case <-h.changed:
		case <-ctx.Done():
			return h.Value(), ctx.Err()
		}
	}
}

// lookup types query into a headless controller, highlights prediction
// index and presses enter. It returns the committed value once the place
// is resolved.
func lookup(ctx context.Context, provider geocoding.Provider, log *logger.Logger, query string, index int, timeout time.Duration) (autocomplete.FieldValue, error) {
	if index < 0 {
		return autocomplete.FieldValue{}, fmt.Errorf("index must not be negative")
	}
	if query == "" {
		return autocomplete.FieldValue{}, fmt.Errorf("query must not be empty")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	host := newHeadlessHost()
	controller, err := autocomplete.New(host, provider, provider, autocomplete.Options{Logger: log})
	if err != nil {
		return autocomplete.FieldValue{}, err
	}
	defer controller.Close()

	controller.Focus()
	_, before := host.snapshot()
	controller.Change(query)

	// Change publishes the typed text, then the predictor publishes once per
	// response, including empty and failed ones.
	value, err := host.waitForChange(ctx, before+1)
	if err != nil {
		return value, fmt.Errorf("waiting for predictions for %q: %w", query, err)
	}
	if len(value.Predictions) == 0 {
		return value, fmt.Errorf("%w for %q", errNoPredictions, query)
	}
	if len(value.Predictions) <= index {
		return value, fmt.Errorf("only %d predictions for %q", len(value.Predictions), query)
	}
	log.Debug("predictions received", "query", query, "count", len(value.Predictions))

	for i := 0; i <= index; i++ {
		controller.KeyDown(autocomplete.KeyArrowDown)
	}
	controller.KeyDown(autocomplete.KeyEnter)

	// A failed resolution clears the selection, so wait for either outcome.
	value, err = host.waitFor(ctx, func(v autocomplete.FieldValue) bool {
		return v.IsResolved() || !v.HasSelection()
	})
	if err != nil {
		return value, err
	}
	if !value.IsResolved() {
		return value, errNotResolved
	}

	controller.Blur()
	host.mu.Lock()
	defer host.mu.Unlock()
	if host.committed == nil {
		return value, errNotResolved
	}
	return *host.committed, nil
}
