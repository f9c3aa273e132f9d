package maps

import (
	"context"
	"errors"
	"net/http"

	"lckr_backend/internal/geocoding"
	"lckr_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes one-shot place predictions and details.
type Handler struct {
	geo geocoding.Provider
}

func NewHandler(geo geocoding.Provider) *Handler {
	return &Handler{geo: geo}
}

// Predictions handles GET /api/v1/maps/predictions?q=...
func (h *Handler) Predictions(c *gin.Context) {
	var req PredictionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query 'q' is required", nil)
		return
	}

	result, err := h.geo.Predictions(c.Request.Context(), req.Query)
	if err != nil {
		writeUpstreamError(c, err)
		return
	}
	if result.Predictions == nil {
		result.Predictions = []geocoding.Prediction{}
	}

	httpkit.OK(c, result)
}

// Place handles GET /api/v1/maps/places/:placeId
func (h *Handler) Place(c *gin.Context) {
	placeID := c.Param("placeId")

	place, err := h.geo.Details(c.Request.Context(), placeID)
	if err != nil {
		writeUpstreamError(c, err)
		return
	}

	httpkit.OK(c, place)
}

func writeUpstreamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, geocoding.ErrInvalidPlaceID):
		httpkit.Error(c, http.StatusBadRequest, "invalid place id", nil)
	case errors.Is(err, geocoding.ErrPlaceNotFound):
		httpkit.Error(c, http.StatusNotFound, "place not found", nil)
	case errors.Is(err, context.Canceled):
		c.Status(499)
	default:
		_ = c.Error(err)
		httpkit.Error(c, http.StatusBadGateway, "geocoding service unavailable", nil)
	}
}
