package listings

import (
	apphttp "lckr_backend/internal/http"
	"lckr_backend/platform/validator"
)

// Module wires the listing location HTTP routes.
type Module struct {
	handler *Handler
}

func NewModule(svc *Service, val *validator.Validator) *Module {
	return &Module{handler: NewHandler(svc, val)}
}

func (m *Module) Name() string {
	return "listings"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/listings")
	group.GET("/locations", m.handler.ListPresets)
	group.POST("/location/initial-values", m.handler.InitialValues)
	group.PUT("/:id/location", m.handler.UpdateLocation)
}

var _ apphttp.Module = (*Module)(nil)
