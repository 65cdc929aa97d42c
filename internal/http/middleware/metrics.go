package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Limiter backends, used as the "backend" label.
const (
	backendMemory = "memory"
	backendRedis  = "redis"
)

var (
	LimiterAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minesweeper_api_limiter_allowed_total",
			Help: "API requests let through by the rate limiter",
		},
		[]string{"backend", "route"},
	)
	LimiterBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minesweeper_api_limiter_blocked_total",
			Help: "API requests answered with 429",
		},
		[]string{"backend", "route"},
	)
	// LimiterFailOpen counts requests passed through because the limiter
	// store could not be reached.
	LimiterFailOpen = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minesweeper_api_limiter_fail_open_total",
			Help: "API requests let through without a limit check",
		},
		[]string{"backend"},
	)
)

func init() {
	prometheus.MustRegister(LimiterAllowed)
	prometheus.MustRegister(LimiterBlocked)
	prometheus.MustRegister(LimiterFailOpen)
}

func countLimited(backend string, c *gin.Context, allowed bool) {
	if allowed {
		LimiterAllowed.WithLabelValues(backend, c.FullPath()).Inc()
		return
	}
	LimiterBlocked.WithLabelValues(backend, c.FullPath()).Inc()
}
