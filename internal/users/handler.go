package users

import (
	"github.com/gin-gonic/gin"

	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/httputil"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/response"
)

// ProfileRequest is the body for PUT /users/:id.
type ProfileRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}

// StatusRequest is the body for PATCH /users/:id/status.
type StatusRequest struct {
	Status models.UserStatus `json:"status" binding:"required"`
}

// ListResponse is a page of users.
type ListResponse struct {
	Users  []models.UserPublic `json:"users"`
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

// Handler handles user HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a user handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /users?status=&search=&limit=&offset=.
func (h *Handler) List(c *gin.Context) {
	f := ListFilter{
		Status: models.UserStatus(c.Query("status")),
		Search: c.Query("search"),
		Limit:  httputil.QueryInt(c, "limit", 20),
		Offset: httputil.QueryInt(c, "offset", 0),
	}
	list, total, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		response.Error(c, err)
		return
	}
	f = f.Normalized()
	response.OK(c, ListResponse{Users: list, Total: total, Limit: f.Limit, Offset: f.Offset})
}

// Get handles GET /users/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := httputil.PathUUID(c, "id", "user")
	if !ok {
		return
	}
	u, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}

// UpdateProfile handles PUT /users/:id.
func (h *Handler) UpdateProfile(c *gin.Context) {
	id, ok := httputil.PathUUID(c, "id", "user")
	if !ok {
		return
	}
	var req ProfileRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	u, err := h.svc.UpdateProfile(c.Request.Context(), id, ProfileInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}

// SetStatus handles PATCH /users/:id/status.
func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := httputil.PathUUID(c, "id", "user")
	if !ok {
		return
	}
	var req StatusRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	u, err := h.svc.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}
