package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Recovery turns a panic into a 500 JSON response. It prefers the request
// logger installed by RequestID and falls back to log.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logger := &log
			if reqLog := zerolog.Ctx(c.Request.Context()); reqLog.GetLevel() != zerolog.Disabled {
				logger = reqLog
			}
			logger.Error().
				Interface("panic", r).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Str("action", c.Query("action")).
				Msg("panic recovered")

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		}()
		c.Next()
	}
}
