package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type window struct {
	start time.Time
	count int
}

// SimpleRateLimit is an in-process fixed-window limiter keyed by client IP.
// It is used when no Redis is configured.
func SimpleRateLimit(maxRequests int, per time.Duration) gin.HandlerFunc {
	var mu sync.Mutex
	clients := make(map[string]*window)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		w, ok := clients[ip]
		if !ok || now.Sub(w.start) > per {
			w = &window{start: now}
			clients[ip] = w
		}
		w.count++
		count := w.count
		mu.Unlock()

		if count > maxRequests {
			countLimited(backendMemory, c, false)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		countLimited(backendMemory, c, true)
		c.Next()
	}
}
