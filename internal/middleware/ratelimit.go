package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// RateLimit limits the whole API to requestsPerSecond with the given burst.
// If requestsPerSecond <= 0, rate limiting is disabled.
func RateLimit(requestsPerSecond float64, burst int, logger zerolog.Logger) gin.HandlerFunc {
	if requestsPerSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	limit := strconv.FormatFloat(requestsPerSecond, 'f', -1, 64)

	return func(c *gin.Context) {
		c.Header("X-RateLimit-Limit", limit)
		if !limiter.Allow() {
			logger.Warn().
				Str("request_id", GetRequestID(c)).
				Str("client_ip", c.ClientIP()).
				Msg("rate limit exceeded")
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests. Please try again later."})
			return
		}
		c.Next()
	}
}
