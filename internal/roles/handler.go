package roles

import (
	"github.com/gin-gonic/gin"

	"github.com/Dangerousyusuf/gymclub-backend/pkg/httputil"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/response"
)

// CreateRequest is the body for POST /roles.
type CreateRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	PermissionIDs []string `json:"permission_ids"`
}

// UpdateRequest is the body for PATCH /roles/:id.
type UpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// PermissionsRequest is the body for PUT /roles/:id/permissions.
type PermissionsRequest struct {
	PermissionIDs []string `json:"permission_ids"`
}

// Handler handles role HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a roles handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /roles.
func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Get handles GET /roles/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := httputil.PathUUID(c, "id", "role")
	if !ok {
		return
	}
	role, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, role)
}

// Create handles POST /roles.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	ids, bad, ok := httputil.ParseUUIDs(req.PermissionIDs)
	if !ok {
		response.BadRequest(c, "invalid permission id", bad)
		return
	}
	role, err := h.svc.CreateRole(c.Request.Context(), req.Name, req.Description, ids)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, role)
}

// Update handles PATCH /roles/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := httputil.PathUUID(c, "id", "role")
	if !ok {
		return
	}
	var req UpdateRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	role, err := h.svc.UpdateRole(c.Request.Context(), id, req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, role)
}

// Delete handles DELETE /roles/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := httputil.PathUUID(c, "id", "role")
	if !ok {
		return
	}
	if err := h.svc.DeleteRole(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OKMessage(c, "role deleted", nil)
}

// ReplacePermissions handles PUT /roles/:id/permissions.
func (h *Handler) ReplacePermissions(c *gin.Context) {
	id, ok := httputil.PathUUID(c, "id", "role")
	if !ok {
		return
	}
	var req PermissionsRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	ids, bad, ok := httputil.ParseUUIDs(req.PermissionIDs)
	if !ok {
		response.BadRequest(c, "invalid permission id", bad)
		return
	}
	role, err := h.svc.UpdateRolePermissions(c.Request.Context(), id, ids)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, role)
}
