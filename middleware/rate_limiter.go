package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// rateLimiterStore holds a map of sender identities to their rate limiters.
type rateLimiterStore struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

var limiterStore = &rateLimiterStore{
	limiters: make(map[string]*rate.Limiter),
}

// getLimiter returns the rate limiter for a given key, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[key]
	if !exists {
		// One message per second sustained, burst of 10.
		limiter = rate.NewLimiter(rate.Every(time.Second), 10)
		s.limiters[key] = limiter
	}
	return limiter
}

// RateLimitMiddleware limits webhook traffic per sender, falling back to the
// client IP when the payload carries no sender.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := zap.L()
		key := c.PostForm("From")
		if key == "" {
			key = c.ClientIP()
		}
		limiter := limiterStore.getLimiter(key)
		if !limiter.Allow() {
			logger.Warn("Rate limit exceeded", zap.String("sender", key))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
