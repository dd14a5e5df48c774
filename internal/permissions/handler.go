package permissions

import (
	"github.com/gin-gonic/gin"

	"github.com/Dangerousyusuf/gymclub-backend/pkg/httputil"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/response"
)

// CreateRequest is the body for POST /permissions.
type CreateRequest struct {
	Key         string `json:"key" binding:"required"`
	Module      string `json:"module" binding:"required"`
	Description string `json:"description"`
}

// UpdateRequest is the body for PATCH /permissions/:id.
type UpdateRequest struct {
	Description *string `json:"description"`
}

// Handler handles permission catalog HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a permissions handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /permissions.
func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Grouped handles GET /permissions/grouped.
func (h *Handler) Grouped(c *gin.Context) {
	groups, err := h.svc.ListGrouped(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, groups)
}

// Get handles GET /permissions/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := httputil.PathUUID(c, "id", "permission")
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, p)
}

// Create handles POST /permissions.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	p, err := h.svc.CreatePermission(c.Request.Context(), req.Key, req.Description, req.Module)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, p)
}

// Update handles PATCH /permissions/:id. Only the description is editable.
func (h *Handler) Update(c *gin.Context) {
	id, ok := httputil.PathUUID(c, "id", "permission")
	if !ok {
		return
	}
	var req UpdateRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	if req.Description == nil {
		response.BadRequest(c, "no fields to update")
		return
	}
	p, err := h.svc.UpdateDescription(c.Request.Context(), id, *req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, p)
}
