package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRateLimitLimit is the header for the limit.
	HeaderRateLimitLimit = "X-RateLimit-Limit"
	// HeaderRateLimitRemaining is the header for remaining requests.
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	// HeaderRateLimitReset is the header for the window reset time.
	HeaderRateLimitReset = "X-RateLimit-Reset"
	// HeaderRetryAfter is the header for retry time.
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter is the slice of the cache limiter the middleware consumes.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)
}

// RateLimit limits requests per caller. Authenticated customers are counted
// per customer id, anonymous callers per client IP. Limiter errors fail open
// so a Redis outage does not take the store API down with it.
func RateLimit(limiter RateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := rateLimitKey(c)

		allowed, err := limiter.Allow(ctx, key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		remaining, _ := limiter.Remaining(ctx, key, limit, window)
		c.Header(HeaderRateLimitLimit, strconv.Itoa(limit))
		c.Header(HeaderRateLimitRemaining, strconv.Itoa(remaining))
		c.Header(HeaderRateLimitReset, strconv.FormatInt(time.Now().Add(window).Unix(), 10))

		if !allowed {
			c.Header(HeaderRetryAfter, strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "RATE_LIMIT_EXCEEDED",
					"message": "Too many requests, please try again later",
				},
			})
			return
		}

		c.Next()
	}
}

func rateLimitKey(c *gin.Context) string {
	if id := GetCustomerID(c); id != uuid.Nil {
		return "customer:" + id.String()
	}
	return "ip:" + c.ClientIP()
}
