package listings

import (
	"net/http"

	"lckr_backend/platform/httpkit"
	"lckr_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// UpdateLocationRequest is the body of PUT /listings/:id/location.
type UpdateLocationRequest struct {
	FormValues
}

// Validate-only view of the request; nested autocomplete values are
// checked by BuildLocationUpdate.
type updateLocationRules struct {
	ListingID    string `validate:"required,max=64"`
	Building     string `validate:"max=128"`
	LockerSelect string `validate:"omitempty,max=32"`
}

// Handler exposes the listing location step.
type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListPresets handles GET /api/v1/listings/locations
func (h *Handler) ListPresets(c *gin.Context) {
	httpkit.OK(c, h.svc.Presets().Selectable())
}

// UpdateLocation handles PUT /api/v1/listings/:id/location
func (h *Handler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	listingID := c.Param("id")
	if err := h.val.Struct(updateLocationRules{
		ListingID:    listingID,
		Building:     req.Building,
		LockerSelect: req.LockerSelect,
	}); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	update, err := h.svc.UpdateLocation(c.Request.Context(), listingID, req.FormValues)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, update)
}

// InitialValues handles POST /api/v1/listings/location/initial-values: it
// echoes the location form values for a listing payload.
func (h *Handler) InitialValues(c *gin.Context) {
	var listing Listing
	if err := c.ShouldBindJSON(&listing); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	httpkit.OK(c, InitialValues(listing))
}
