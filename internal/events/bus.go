package events

import (
	"context"

	platformevents "lckr_backend/platform/events"
	"lckr_backend/platform/logger"
)

// InMemoryBus is the process-wide bus shared by the location input sessions,
// the listing service and the notification module.
type InMemoryBus = platformevents.InMemoryBus

func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}

// On subscribes fn to one event type, keyed by that type's EventName.
//
//	events.On(bus, func(ctx context.Context, e events.LocationCommitted) error { ... })
func On[E Event](bus Bus, fn func(ctx context.Context, event E) error) {
	var zero E
	bus.Subscribe(zero.EventName(), platformevents.Typed(fn))
}
