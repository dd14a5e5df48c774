package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Dangerousyusuf/gymclub-backend/pkg/httputil"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/response"
)

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	svc *Service
	// userID reads the authenticated user set by the JWT middleware.
	userID func(c *gin.Context) (uuid.UUID, bool)
}

// NewHandler creates an auth handler. userID extracts the caller from the request context.
func NewHandler(svc *Service, userID func(c *gin.Context) (uuid.UUID, bool)) *Handler {
	return &Handler{svc: svc, userID: userID}
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	sess, err := h.svc.Register(c.Request.Context(), RegisterInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sess)
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !httputil.BindJSON(c, &req) {
		return
	}
	sess, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sess)
}

// Me handles GET /me.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	p, err := h.svc.Me(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, p)
}
