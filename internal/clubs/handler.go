package clubs

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/httputil"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/response"
)

// CreateRequest is the body for POST /clubs.
type CreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Website     string `json:"website" binding:"omitempty,url"`
	Description string `json:"description"`
}

// UpdateRequest is the body for PUT /clubs/:id.
type UpdateRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Website     *string `json:"website"`
	Description *string `json:"description"`
}

// StatusRequest is the body for PATCH /clubs/:id/status.
type StatusRequest struct {
	Status models.ClubStatus `json:"status" binding:"required"`
}

// ListResponse is a page of clubs.
type ListResponse struct {
	Clubs  []models.Club `json:"clubs"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// Handler handles club HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a club handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// List handles GET /clubs?status=&search=&limit=&offset=.
func (h *Handler) List(c *gin.Context) {
	f := ListFilter{
		Status: models.ClubStatus(c.Query("status")),
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
	response.OK(c, ListResponse{Clubs: list, Total: total, Limit: f.Limit, Offset: f.Offset})
}

// Get handles GET /clubs/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := httputil.PathUUID(c, "id", "club")
	if !ok {
		return
	}
	club, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, club)
}

// Create handles POST /clubs.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	club, err := h.svc.Create(c.Request.Context(), CreateInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, club)
}

// Update handles PUT /clubs/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := httputil.PathUUID(c, "id", "club")
	if !ok {
		return
	}
	var req UpdateRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	club, err := h.svc.Update(c.Request.Context(), id, UpdateInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, club)
}

// SetStatus handles PATCH /clubs/:id/status.
func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := httputil.PathUUID(c, "id", "club")
	if !ok {
		return
	}
	var req StatusRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	club, err := h.svc.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, club)
}

// Delete handles DELETE /clubs/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := httputil.PathUUID(c, "id", "club")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OKMessage(c, "club deleted", nil)
}

// UploadLogo handles POST /clubs/:id/logo (multipart, form field: logo).
func (h *Handler) UploadLogo(c *gin.Context) {
	id, ok := httputil.PathUUID(c, "id", "club")
	if !ok {
		return
	}
	file, err := c.FormFile("logo")
	if err != nil {
		response.BadRequest(c, "missing file (form field: logo)")
		return
	}
	rc, err := file.Open()
	if err != nil {
		h.logger.Error("open uploaded logo failed", zap.Error(err))
		response.Internal(c, "failed to read file")
		return
	}
	defer rc.Close()

	club, err := h.svc.UploadLogo(c.Request.Context(), id, LogoUpload{
		Body:        rc,
		Size:        file.Size,
		ContentType: file.Header.Get("Content-Type"),
		Filename:    file.Filename,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, club)
}
