package locationinput

import (
	"context"

	apphttp "lckr_backend/internal/http"
	"lckr_backend/internal/notification/sse"
	"lckr_backend/platform/validator"
)

// Module wires the location input session HTTP routes.
type Module struct {
	svc     *Service
	handler *Handler
	stream  *sse.Service
}

// NewModule creates the location input module.
func NewModule(svc *Service, stream *sse.Service, val *validator.Validator) *Module {
	return &Module{
		svc:     svc,
		handler: NewHandler(svc, val),
		stream:  stream,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "locationinput"
}

// Service exposes the session service.
func (m *Module) Service() *Service {
	return m.svc
}

// Run sweeps idle sessions until ctx is done.
func (m *Module) Run(ctx context.Context) error {
	return m.svc.Run(ctx)
}

// RegisterRoutes mounts the session routes. Routes that can reach the
// geocoding provider sit behind the per-IP limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	limited := ctx.Limited.Group("/location-inputs")
	limited.POST("", m.handler.Create)
	limited.POST("/:id/events", m.handler.Event)

	group := ctx.V1.Group("/location-inputs")
	group.GET("/:id", m.handler.Get)
	group.DELETE("/:id", m.handler.Delete)
	group.GET("/:id/stream", m.stream.Handler(m.handler.streamTopic))
}

var _ apphttp.Module = (*Module)(nil)
