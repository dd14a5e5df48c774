package gyms

import (
	"github.com/gin-gonic/gin"

	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/httputil"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/response"
)

// CreateRequest is the body for POST /gyms.
type CreateRequest struct {
	Name       string           `json:"name" binding:"required"`
	Address    string           `json:"address"`
	City       string           `json:"city"`
	District   string           `json:"district"`
	PostalCode string           `json:"postal_code"`
	Phone      string           `json:"phone"`
	Email      string           `json:"email" binding:"omitempty,email"`
	Capacity   *int             `json:"capacity"`
	AreaSqm    *int             `json:"area_sqm"`
	Status     models.GymStatus `json:"status"`
}

// UpdateRequest is the body for PUT /gyms/:id.
type UpdateRequest struct {
	Name       *string `json:"name"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	District   *string `json:"district"`
	PostalCode *string `json:"postal_code"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Capacity   *int    `json:"capacity"`
	AreaSqm    *int    `json:"area_sqm"`
}

// StatusRequest is the body for PATCH /gyms/:id/status.
type StatusRequest struct {
	Status models.GymStatus `json:"status" binding:"required"`
}

// ListResponse is a page of gyms.
type ListResponse struct {
	Gyms   []models.Gym `json:"gyms"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// Handler handles gym HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a gym handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /gyms?status=&city=&search=&limit=&offset=.
func (h *Handler) List(c *gin.Context) {
	f := ListFilter{
		Status: models.GymStatus(c.Query("status")),
		City:   c.Query("city"),
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
	response.OK(c, ListResponse{Gyms: list, Total: total, Limit: f.Limit, Offset: f.Offset})
}

// Get handles GET /gyms/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := httputil.PathUUID(c, "id", "gym")
	if !ok {
		return
	}
	gym, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gym)
}

// Create handles POST /gyms.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	gym, err := h.svc.Create(c.Request.Context(), CreateInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gym)
}

// Update handles PUT /gyms/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := httputil.PathUUID(c, "id", "gym")
	if !ok {
		return
	}
	var req UpdateRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	gym, err := h.svc.Update(c.Request.Context(), id, UpdateInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gym)
}

// SetStatus handles PATCH /gyms/:id/status.
func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := httputil.PathUUID(c, "id", "gym")
	if !ok {
		return
	}
	var req StatusRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	gym, err := h.svc.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gym)
}

// Delete handles DELETE /gyms/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := httputil.PathUUID(c, "id", "gym")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OKMessage(c, "gym deleted", nil)
}
