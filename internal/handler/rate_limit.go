package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neuralfit/backend/internal/dto"
	"github.com/neuralfit/backend/internal/service"
)

// RateLimitMiddleware enforces a fixed-window limit per key. Limiter errors
// other than "rate limit exceeded" let the request through.
func RateLimitMiddleware(rateLimiter *service.RateLimiter, limit int, window time.Duration, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		allowed, err := rateLimiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			if strings.Contains(err.Error(), "rate limit exceeded") {
				rejectRateLimited(c, rateLimiter, key, limit, window, err.Error())
				return
			}
			c.Next()
			return
		}

		if !allowed {
			rejectRateLimited(c, rateLimiter, key, limit, window, "Rate limit exceeded")
			return
		}

		remaining, _ := rateLimiter.GetRemainingRequests(c.Request.Context(), key, limit, window)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		c.Next()
	}
}

func rejectRateLimited(c *gin.Context, rateLimiter *service.RateLimiter, key string, limit int, window time.Duration, message string) {
	remaining, _ := rateLimiter.GetRemainingRequests(c.Request.Context(), key, limit, window)
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
	c.Header("X-RateLimit-Retry-After", extractRetryAfter(message))

	c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
		Error:   "Too Many Requests",
		Message: message,
	})
}

// IPBasedKey keys the limiter on the client IP, honoring X-Forwarded-For.
func IPBasedKey(c *gin.Context) string {
	ip := c.GetHeader("X-Forwarded-For")
	if ip != "" {
		ips := strings.Split(ip, ",")
		return strings.TrimSpace(ips[0])
	}
	return c.ClientIP()
}

// extractRetryAfter pulls the wait time out of "try again in 45s" messages.
func extractRetryAfter(errMsg string) string {
	if strings.Contains(errMsg, "try again in") {
		parts := strings.Split(errMsg, "try again in")
		if len(parts) > 1 {
			return strings.TrimSpace(parts[1])
		}
	}
	return "60"
}
