// Package events carries domain events between modules in one process.
// Publishers such as the location input sessions and the listing service
// never learn who consumes their events; the notification module turns
// them into SSE pushes.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event.
type Event interface {
	// EventName is the subscription key, e.g. "locationinput.committed".
	EventName() string
	OccurredAt() time.Time
}

// Keyed is implemented by events that belong to one session or listing.
// The bus tags handler failures with the key.
type Keyed interface {
	EventKey() string
}

// BaseEvent is embedded by domain events for their timestamp.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps an event with the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

// Handler processes published events.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Typed adapts a handler for one concrete event type. Events of any other
// type are ignored.
func Typed[E Event](fn func(ctx context.Context, event E) error) Handler {
	return HandlerFunc(func(ctx context.Context, event Event) error {
		e, ok := event.(E)
		if !ok {
			return nil
		}
		return fn(ctx, e)
	})
}

// Bus routes events to the handlers subscribed to their name.
type Bus interface {
	// Publish runs handlers asynchronously; their errors are only logged.
	Publish(ctx context.Context, event Event)

	// PublishSync runs handlers in order and returns the first error.
	// Remaining handlers still run.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers handler for eventName (see Event.EventName).
	Subscribe(eventName string, handler Handler)

	// Wait blocks until asynchronously published handlers have returned.
	// The server calls it after shutdown so committed locations still reach
	// their subscribers.
	Wait()
}
