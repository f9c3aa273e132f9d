package booking

import (
	"net/http"
	"time"

	"lckr_backend/platform/apperr"
	"lckr_backend/platform/httpkit"
	"lckr_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// EstimateRequest is the body of POST /bookings/estimate.
type EstimateRequest struct {
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	LineItems []LineItem `json:"lineItems" validate:"omitempty,dive"`
	UserRole  string     `json:"userRole" validate:"omitempty,oneof=customer provider"`
}

// Handler serves booking estimates.
type Handler struct {
	estimator *Estimator
	val       *validator.Validator
}

func NewHandler(estimator *Estimator, val *validator.Validator) *Handler {
	return &Handler{estimator: estimator, val: val}
}

// Estimate handles POST /api/v1/bookings/estimate. It answers 204 when the
// booking dates or line items are not known yet.
func (h *Handler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if req.StartDate == nil || req.EndDate == nil || req.LineItems == nil {
		c.Status(http.StatusNoContent)
		return
	}
	if req.EndDate.Before(*req.StartDate) {
		httpkit.Error(c, http.StatusBadRequest, "endDate must not be before startDate", nil)
		return
	}

	role := req.UserRole
	if role == "" {
		role = RoleCustomer
	}

	tx, err := h.estimator.EstimateTransaction(*req.StartDate, *req.EndDate, req.LineItems, role)
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindValidation, err.Error(), err))
		return
	}
	httpkit.OK(c, tx)
}
