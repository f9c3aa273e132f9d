package locationinput

import (
	"net/http"

	"lckr_backend/platform/httpkit"
	"lckr_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidSessionID = "invalid session id"
)

// Handler exposes location input sessions over HTTP.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates a new location input handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create handles POST /api/v1/location-inputs
func (h *Handler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	session, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, session.Snapshot())
}

// Get handles GET /api/v1/location-inputs/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	session, err := h.svc.Get(id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, session.Snapshot())
}

// Event handles POST /api/v1/location-inputs/:id/events
func (h *Handler) Event(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.Dispatch(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}

// Delete handles DELETE /api/v1/location-inputs/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.Close(id)) {
		return
	}

	c.Status(http.StatusNoContent)
}

// streamTopic resolves the SSE topic for GET /api/v1/location-inputs/:id/stream
func (h *Handler) streamTopic(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return "", false
	}
	if _, err := h.svc.Get(id); err != nil {
		return "", false
	}
	return id.String(), true
}

func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidSessionID, nil)
		return uuid.Nil, false
	}
	return id, true
}
