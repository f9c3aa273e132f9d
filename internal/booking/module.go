package booking

import (
	apphttp "lckr_backend/internal/http"
	"lckr_backend/platform/config"
	"lckr_backend/platform/validator"
)

// Module wires the booking estimate route.
type Module struct {
	handler *Handler
}

func NewModule(cfg config.BookingConfig, val *validator.Validator) *Module {
	return &Module{handler: NewHandler(NewEstimator(cfg.GetMarketplaceCurrency()), val)}
}

func (m *Module) Name() string {
	return "booking"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/bookings/estimate", m.handler.Estimate)
}

var _ apphttp.Module = (*Module)(nil)
