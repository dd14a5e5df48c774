// Package httputil holds small gin request helpers shared by the handlers.
package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Dangerousyusuf/gymclub-backend/pkg/response"
)

// PathUUID parses a UUID path parameter. On failure it writes a 400 and returns false.
func PathUUID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+label+" id")
		return uuid.Nil, false
	}
	return id, true
}

// BodyUUID parses a UUID taken from a request body field. On failure it writes a 400
// naming the field and returns false.
func BodyUUID(c *gin.Context, raw, field string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, "invalid "+field, field)
		return uuid.Nil, false
	}
	return id, true
}

// BindJSON binds the request body. On failure it writes a 400 and returns false.
func BindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, "invalid request", err.Error())
		return false
	}
	return true
}

// ParseUUIDs parses a list of string IDs, naming the first invalid one.
func ParseUUIDs(raw []string) ([]uuid.UUID, string, bool) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, s, false
		}
		ids = append(ids, id)
	}
	return ids, "", true
}

// QueryInt reads an integer query parameter with a fallback.
func QueryInt(c *gin.Context, name string, fallback int) int {
	if v := c.Query(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
