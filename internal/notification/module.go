// Package notification forwards domain events to connected clients.
// This module subscribes to events and inverts the dependency: domain modules
// publish events without knowing how (or whether) anyone is watching.
package notification

import (
	"context"

	"lckr_backend/internal/events"
	apphttp "lckr_backend/internal/http"
	"lckr_backend/internal/notification/sse"
	"lckr_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module pushes committed locations and listing updates over SSE.
type Module struct {
	sse *sse.Service
	log *logger.Logger
}

// New creates the notification module.
func New(sseService *sse.Service, log *logger.Logger) *Module {
	return &Module{sse: sseService, log: log}
}

// Name returns the module name for logging.
func (m *Module) Name() string { return "notification" }

// RegisterRoutes mounts the listing update stream.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/listings/:id/stream", m.sse.Handler(func(c *gin.Context) (string, bool) {
		id := c.Param("id")
		return sse.ListingTopic(id), id != ""
	}))
}

// RegisterHandlers subscribes to committed locations and listing updates.
func (m *Module) RegisterHandlers(bus events.Bus) {
	events.On(bus, m.handleLocationCommitted)
	events.On(bus, m.handleListingLocationUpdated)

	m.log.Info("notification module registered event handlers")
}

func (m *Module) handleLocationCommitted(_ context.Context, e events.LocationCommitted) error {
	m.sse.Publish(e.SessionID.String(), sse.Event{
		Type: sse.EventLocationCommitted,
		Data: e,
	})
	m.log.Info("location committed", "sessionId", e.SessionID, "field", e.Field, "resolved", e.Resolved)
	return nil
}

func (m *Module) handleListingLocationUpdated(_ context.Context, e events.ListingLocationUpdated) error {
	m.sse.Publish(sse.ListingTopic(e.ListingID), sse.Event{
		Type:    sse.EventListingLocationUpdated,
		Message: e.Address,
		Data:    e,
	})
	return nil
}

var _ apphttp.Module = (*Module)(nil)
