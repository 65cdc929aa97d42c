package http

import (
	"time"

	"minesweeper/internal/http/handlers"
	"minesweeper/internal/http/middleware"
	"minesweeper/internal/service"
	"minesweeper/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

// RouteConfig carries what the router needs besides the runner.
type RouteConfig struct {
	Version       string
	AllowedOrigin string
	RateLimit     int
	RateWindow    time.Duration
	// Redis backs the rate limiter when set.
	Redis *redis.Client
}

// RegisterRoutes mounts the game API, the event stream and the probes on r.
func RegisterRoutes(r *gin.Engine, runner *service.Runner, hub *ws.Hub, cfg RouteConfig) {
	h := handlers.NewHandler(runner)
	healthHandler := handlers.NewHealthHandler(runner, cfg.Version)

	// Health checks (no rate limiting)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	if cfg.RateLimit > 0 {
		v1.Use(middleware.RateLimit(cfg.Redis, cfg.RateLimit, cfg.RateWindow))
	}
	{
		v1.GET("/game", h.GetGame)
		v1.POST("/game/new", h.NewGame)
		v1.POST("/game/reveal", h.Reveal)
		v1.POST("/game/chord", h.Chord)
		v1.POST("/game/flag", h.Flag)

		v1.GET("/best-times", h.GetBestTimes)
		v1.DELETE("/best-times", h.ResetBestTimes)

		v1.GET("/difficulties", h.ListDifficulties)
	}

	r.GET("/ws", ws.HandleWS(hub, cfg.AllowedOrigin))
}
