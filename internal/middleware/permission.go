package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Dangerousyusuf/gymclub-backend/pkg/response"
)

// PermissionChecker resolves whether a user currently holds a permission key.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID uuid.UUID, key string) (bool, error)
}

// RequirePermission allows the request only if the user holds at least one of keys.
// Permissions are resolved per request, not read from the token.
func RequirePermission(checker PermissionChecker, keys ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		for _, key := range keys {
			has, err := checker.HasPermission(c.Request.Context(), userID, key)
			if err != nil {
				_ = c.Error(err)
				response.Internal(c, "permission check failed")
				c.Abort()
				return
			}
			if has {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "insufficient permissions")
		c.Abort()
	}
}
