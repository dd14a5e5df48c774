package authz

import (
	"github.com/gin-gonic/gin"

	"github.com/Dangerousyusuf/gymclub-backend/internal/middleware"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/httputil"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/response"
)

// RoleRequest is the body for POST /users/:id/roles.
type RoleRequest struct {
	RoleID string `json:"role_id" binding:"required,uuid"`
}

// RolesRequest is the body for PUT /users/:id/roles.
type RolesRequest struct {
	RoleIDs []string `json:"role_ids"`
}

// PermissionRequest is the body for POST /users/:id/permissions.
type PermissionRequest struct {
	PermissionID string `json:"permission_id" binding:"required,uuid"`
}

// PermissionsRequest is the body for PUT /users/:id/permissions.
type PermissionsRequest struct {
	PermissionIDs []string `json:"permission_ids"`
}

// EffectiveResponse is returned by the effective permission endpoints.
type EffectiveResponse struct {
	UserID      string   `json:"user_id"`
	Permissions []string `json:"permissions"`
}

// Handler handles user authorization HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates an authz handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Effective handles GET /users/:id/permissions/effective.
func (h *Handler) Effective(c *gin.Context) {
	userID, ok := httputil.PathUUID(c, "id", "user")
	if !ok {
		return
	}
	keys, err := h.svc.EffectiveKeys(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, EffectiveResponse{UserID: userID.String(), Permissions: keys})
}

// Mine handles GET /me/permissions.
func (h *Handler) Mine(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	keys, err := h.svc.EffectiveKeys(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, EffectiveResponse{UserID: userID.String(), Permissions: keys})
}

// ListRoles handles GET /users/:id/roles.
func (h *Handler) ListRoles(c *gin.Context) {
	userID, ok := httputil.PathUUID(c, "id", "user")
	if !ok {
		return
	}
	list, err := h.svc.UserRoles(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// AssignRole handles POST /users/:id/roles.
func (h *Handler) AssignRole(c *gin.Context) {
	userID, ok := httputil.PathUUID(c, "id", "user")
	if !ok {
		return
	}
	var req RoleRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	roleID, ok := httputil.BodyUUID(c, req.RoleID, "role_id")
	if !ok {
		return
	}
	if err := h.svc.AssignRole(c.Request.Context(), userID, roleID); err != nil {
		response.Error(c, err)
		return
	}
	response.OKMessage(c, "role assigned", nil)
}

// ReplaceRoles handles PUT /users/:id/roles.
func (h *Handler) ReplaceRoles(c *gin.Context) {
	userID, ok := httputil.PathUUID(c, "id", "user")
	if !ok {
		return
	}
	var req RolesRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	ids, bad, ok := httputil.ParseUUIDs(req.RoleIDs)
	if !ok {
		response.BadRequest(c, "invalid role id", bad)
		return
	}
	if err := h.svc.ReplaceRoles(c.Request.Context(), userID, ids); err != nil {
		response.Error(c, err)
		return
	}
	response.OKMessage(c, "roles updated", nil)
}

// RemoveRole handles DELETE /users/:id/roles/:roleId.
func (h *Handler) RemoveRole(c *gin.Context) {
	userID, ok := httputil.PathUUID(c, "id", "user")
	if !ok {
		return
	}
	roleID, ok := httputil.PathUUID(c, "roleId", "role")
	if !ok {
		return
	}
	if err := h.svc.RemoveRole(c.Request.Context(), userID, roleID); err != nil {
		response.Error(c, err)
		return
	}
	response.OKMessage(c, "role removed", nil)
}

// ListPermissions handles GET /users/:id/permissions (direct grants only).
func (h *Handler) ListPermissions(c *gin.Context) {
	userID, ok := httputil.PathUUID(c, "id", "user")
	if !ok {
		return
	}
	list, err := h.svc.UserDirectPermissions(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// GrantPermission handles POST /users/:id/permissions.
func (h *Handler) GrantPermission(c *gin.Context) {
	userID, ok := httputil.PathUUID(c, "id", "user")
	if !ok {
		return
	}
	var req PermissionRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	permissionID, ok := httputil.BodyUUID(c, req.PermissionID, "permission_id")
	if !ok {
		return
	}
	if err := h.svc.GrantPermission(c.Request.Context(), userID, permissionID); err != nil {
		response.Error(c, err)
		return
	}
	response.OKMessage(c, "permission granted", nil)
}

// ReplacePermissions handles PUT /users/:id/permissions.
func (h *Handler) ReplacePermissions(c *gin.Context) {
	userID, ok := httputil.PathUUID(c, "id", "user")
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
	if err := h.svc.ReplacePermissions(c.Request.Context(), userID, ids); err != nil {
		response.Error(c, err)
		return
	}
	response.OKMessage(c, "permissions updated", nil)
}

// RevokePermission handles DELETE /users/:id/permissions/:permissionId.
func (h *Handler) RevokePermission(c *gin.Context) {
	userID, ok := httputil.PathUUID(c, "id", "user")
	if !ok {
		return
	}
	permissionID, ok := httputil.PathUUID(c, "permissionId", "permission")
	if !ok {
		return
	}
	if err := h.svc.RevokePermission(c.Request.Context(), userID, permissionID); err != nil {
		response.Error(c, err)
		return
	}
	response.OKMessage(c, "permission revoked", nil)
}
