package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// RedisRateLimit is a fixed-window limiter using INCR/EXPIRE, keyed
// rl:<window_seconds>:<client ip>. Redis errors fail open.
func RedisRateLimit(client *redis.Client, maxRequests int, window time.Duration) gin.HandlerFunc {
	prefix := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":"

	return func(c *gin.Context) {
		key := prefix + c.ClientIP()
		ctx := c.Request.Context()

		val, err := client.Incr(ctx, key).Result()
		if err != nil {
			LimiterFailOpen.WithLabelValues(backendRedis).Inc()
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}
		if val == 1 {
			client.Expire(ctx, key, window)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

		if val > int64(maxRequests) {
			countLimited(backendRedis, c, false)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		countLimited(backendRedis, c, true)
		c.Next()
	}
}

// RateLimit picks the Redis limiter when client is set and the in-process
// one otherwise.
func RateLimit(client *redis.Client, maxRequests int, window time.Duration) gin.HandlerFunc {
	if client != nil {
		return RedisRateLimit(client, maxRequests, window)
	}
	return SimpleRateLimit(maxRequests, window)
}
