package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"balcvetov/api/internal/models"
	"balcvetov/api/internal/service"
)

const (
	AuthTokenHeader = "X-Auth-Token"

	currentUserKey   = "current_user"
	publicRequestKey = "public_request"
)

type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (models.User, error)
}

// AuthToken returns the bearer token of the request, or "" when absent.
func AuthToken(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(AuthTokenHeader))
}

func CurrentUser(c *gin.Context) (models.User, bool) {
	val, ok := c.Get(currentUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}

// Auth resolves X-Auth-Token into the current user and aborts with 401 when
// the token is missing or has no live session. Requests for which public returns true skip the
// check and are marked so RequireRoles lets them through as well.
func Auth(sessions TokenValidator, public func(*gin.Context) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if public != nil && public(c) {
			c.Set(publicRequestKey, true)
			c.Next()
			return
		}

		user, err := sessions.ValidateToken(c.Request.Context(), AuthToken(c))
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
				return
			}
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("session lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}
