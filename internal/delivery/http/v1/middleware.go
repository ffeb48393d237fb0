package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jvaldemoro/timetrack/internal/models"
)

const (
	userIDCtxKey = "user_id"
	roleCtxKey   = "role"
)

func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Error().Msg("authorization header required")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		h.logger.Error().Msg("invalid authorization header")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	claims, err := h.auth.ParseToken(parts[1])
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to parse token")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	c.Set(userIDCtxKey, claims.UserID)
	c.Set(roleCtxKey, claims.Role)
	c.Next()
}

// HandleRequireAdmin gates admin-only route groups. It runs after the
// auth middleware, so a missing role means a wiring bug rather than a
// bad request.
func (h *handlerImpl) HandleRequireAdmin(c *gin.Context) {
	if c.GetString(roleCtxKey) != models.RoleAdmin {
		abort(c, newAPIError(http.StatusForbidden, "admin only"))
		return
	}
	c.Next()
}

// actor pulls the authenticated identity out of the request context.
func actor(c *gin.Context) (userID, role string, ok bool) {
	userID = c.GetString(userIDCtxKey)
	role = c.GetString(roleCtxKey)
	return userID, role, userID != "" && role != ""
}

func (h *handlerImpl) mustActor(c *gin.Context) (userID, role string, ok bool) {
	userID, role, ok = actor(c)
	if !ok {
		h.logger.Error().Msg("no identity found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
	}
	return userID, role, ok
}
