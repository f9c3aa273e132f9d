package maps

import (
	"lckr_backend/internal/geocoding"
	apphttp "lckr_backend/internal/http"
)

// Module wires the maps prediction HTTP routes.
type Module struct {
	handler *Handler
}

func NewModule(geo geocoding.Provider) *Module {
	return &Module{handler: NewHandler(geo)}
}

func (m *Module) Name() string {
	return "maps"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Limited.Group("/maps")
	group.GET("/predictions", m.handler.Predictions)
	group.GET("/places/:placeId", m.handler.Place)
}

var _ apphttp.Module = (*Module)(nil)
