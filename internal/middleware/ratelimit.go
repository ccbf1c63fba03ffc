package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"balcvetov/api/internal/config"
)

const rateLimitPrefix = "rl"

// RateLimit counts requests per client ip and action in a fixed window kept in
// redis. Only the listed values of the action query parameter are limited.
// Redis failures let the request through.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client, actions ...string) gin.HandlerFunc {
	if !cfg.Enabled || rdb == nil || cfg.Requests <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}
	limited := make(map[string]struct{}, len(actions))
	for _, action := range actions {
		limited[action] = struct{}{}
	}

	return func(c *gin.Context) {
		action := c.Query("action")
		if _, ok := limited[action]; !ok {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("%s:%s:%s", rateLimitPrefix, action, c.ClientIP())

		count, err := rdb.Incr(ctx, key).Result()
		if err == nil && count == 1 {
			err = rdb.Expire(ctx, key, window).Err()
		}
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("rate limit check failed")
			c.Next()
			return
		}

		remaining := int64(cfg.Requests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(cfg.Requests) {
			retry := int(rdb.TTL(ctx, key).Val().Seconds())
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}

		c.Next()
	}
}
