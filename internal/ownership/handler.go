package ownership

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/httputil"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/response"
)

const dateLayout = "2006-01-02"

// AddRequest is the body for POST /clubs/:id/owners. Omitted type, percentage
// and start date fall back to owner, 100 and today; the response lists which were defaulted.
type AddRequest struct {
	UserID     string                `json:"user_id" binding:"required,uuid"`
	Type       *models.OwnershipType `json:"ownership_type"`
	Percentage *decimal.Decimal      `json:"ownership_percentage"`
	StartDate  *string               `json:"start_date"`
}

// UpdateRequest is the body for PATCH /clubs/:id/owners/:ownerId.
type UpdateRequest struct {
	Type       *models.OwnershipType `json:"ownership_type"`
	Percentage *decimal.Decimal      `json:"ownership_percentage"`
}

// Handler handles club ownership HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates an ownership handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /clubs/:id/owners.
func (h *Handler) List(c *gin.Context) {
	clubID, ok := httputil.PathUUID(c, "id", "club")
	if !ok {
		return
	}
	list, err := h.svc.ListOwners(c.Request.Context(), clubID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// History handles GET /clubs/:id/owners/history.
func (h *Handler) History(c *gin.Context) {
	clubID, ok := httputil.PathUUID(c, "id", "club")
	if !ok {
		return
	}
	list, err := h.svc.History(c.Request.Context(), clubID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Summary handles GET /clubs/:id/owners/summary.
func (h *Handler) Summary(c *gin.Context) {
	clubID, ok := httputil.PathUUID(c, "id", "club")
	if !ok {
		return
	}
	sum, err := h.svc.Summary(c.Request.Context(), clubID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sum)
}

// Add handles POST /clubs/:id/owners.
func (h *Handler) Add(c *gin.Context) {
	clubID, ok := httputil.PathUUID(c, "id", "club")
	if !ok {
		return
	}
	var req AddRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	userID, ok := httputil.BodyUUID(c, req.UserID, "user_id")
	if !ok {
		return
	}
	in := AddOwnerInput{
		ClubID: clubID,
		UserID: userID,
		Type:   req.Type,
		Share:  ShareFrom(req.Percentage),
	}
	if req.StartDate != nil {
		d, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			response.BadRequest(c, "start_date must be YYYY-MM-DD", "start_date")
			return
		}
		in.StartDate = &d
	}
	res, err := h.svc.AddOwner(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Update handles PATCH /clubs/:id/owners/:ownerId.
func (h *Handler) Update(c *gin.Context) {
	clubID, ok := httputil.PathUUID(c, "id", "club")
	if !ok {
		return
	}
	stakeID, ok := httputil.PathUUID(c, "ownerId", "owner")
	if !ok {
		return
	}
	var req UpdateRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	st, err := h.svc.UpdateOwnership(c.Request.Context(), clubID, stakeID, req.Type, req.Percentage)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, st)
}

// Remove handles DELETE /clubs/:id/owners/:ownerId.
func (h *Handler) Remove(c *gin.Context) {
	clubID, ok := httputil.PathUUID(c, "id", "club")
	if !ok {
		return
	}
	stakeID, ok := httputil.PathUUID(c, "ownerId", "owner")
	if !ok {
		return
	}
	if err := h.svc.RemoveOwner(c.Request.Context(), clubID, stakeID); err != nil {
		response.Error(c, err)
		return
	}
	response.OKMessage(c, "owner removed", nil)
}

// ByUser handles GET /users/:id/clubs.
func (h *Handler) ByUser(c *gin.Context) {
	userID, ok := httputil.PathUUID(c, "id", "user")
	if !ok {
		return
	}
	list, err := h.svc.ClubsOwnedBy(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}
