package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/zenstore/pkg/logger"
	"github.com/wyfcoding/zenstore/pkg/ratelimit"
)

// Throttle 按客户端 IP 限流，超限返回 429。
// 限流器故障时放行，可用性优先于限流精度。
func Throttle(limiter ratelimit.RateLimiter, limit ratelimit.Limit) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.FullPath() + ":" + c.ClientIP()
		result, err := limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			logger.Warn(c.Request.Context(), "rate limit check failed", "key", key, "error", err)
			c.Next()
			return
		}
		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "Too many attempts, please try again later",
			})
			return
		}
		c.Next()
	}
}
