package relationships

import (
	"github.com/gin-gonic/gin"

	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/httputil"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/response"
)

// ConnectRequest is the body for POST /clubs/:id/gyms.
type ConnectRequest struct {
	GymID string                  `json:"gym_id" binding:"required,uuid"`
	Type  models.RelationshipType `json:"relationship_type"`
}

// UpdateRequest is the body for PATCH /clubs/:id/gyms/:gymId.
type UpdateRequest struct {
	Type   *models.RelationshipType `json:"relationship_type"`
	Status *models.EdgeStatus       `json:"status"`
}

// Handler handles club-gym relationship HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a relationships handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ListGyms handles GET /clubs/:id/gyms.
func (h *Handler) ListGyms(c *gin.Context) {
	clubID, ok := httputil.PathUUID(c, "id", "club")
	if !ok {
		return
	}
	list, err := h.svc.ListGymsForClub(c.Request.Context(), clubID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// ListClubs handles GET /gyms/:id/clubs.
func (h *Handler) ListClubs(c *gin.Context) {
	gymID, ok := httputil.PathUUID(c, "id", "gym")
	if !ok {
		return
	}
	list, err := h.svc.ListClubsForGym(c.Request.Context(), gymID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Connect handles POST /clubs/:id/gyms. The type defaults to ownership.
func (h *Handler) Connect(c *gin.Context) {
	clubID, ok := httputil.PathUUID(c, "id", "club")
	if !ok {
		return
	}
	var req ConnectRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	if req.Type == "" {
		req.Type = models.RelationshipOwnership
	}
	gymID, ok := httputil.BodyUUID(c, req.GymID, "gym_id")
	if !ok {
		return
	}
	edge, err := h.svc.Connect(c.Request.Context(), clubID, gymID, req.Type)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, edge)
}

// Update handles PATCH /clubs/:id/gyms/:gymId.
func (h *Handler) Update(c *gin.Context) {
	clubID, ok := httputil.PathUUID(c, "id", "club")
	if !ok {
		return
	}
	gymID, ok := httputil.PathUUID(c, "gymId", "gym")
	if !ok {
		return
	}
	var req UpdateRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	if req.Type == nil && req.Status == nil {
		response.BadRequest(c, "no fields to update")
		return
	}
	if (req.Type != nil && !req.Type.Valid()) || (req.Status != nil && !req.Status.Valid()) {
		response.BadRequest(c, "invalid relationship type or status")
		return
	}
	var edge *models.RelationshipEdge
	var err error
	if req.Type != nil {
		if edge, err = h.svc.UpdateType(c.Request.Context(), clubID, gymID, *req.Type); err != nil {
			response.Error(c, err)
			return
		}
	}
	if req.Status != nil {
		if edge, err = h.svc.SetStatus(c.Request.Context(), clubID, gymID, *req.Status); err != nil {
			response.Error(c, err)
			return
		}
	}
	response.OK(c, edge)
}

// Disconnect handles DELETE /clubs/:id/gyms/:gymId.
func (h *Handler) Disconnect(c *gin.Context) {
	clubID, ok := httputil.PathUUID(c, "id", "club")
	if !ok {
		return
	}
	gymID, ok := httputil.PathUUID(c, "gymId", "gym")
	if !ok {
		return
	}
	if err := h.svc.Disconnect(c.Request.Context(), clubID, gymID); err != nil {
		response.Error(c, err)
		return
	}
	response.OKMessage(c, "relationship removed", nil)
}
