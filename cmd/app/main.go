package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minesweeper/internal/config"
	"minesweeper/internal/domain"
	httpServer "minesweeper/internal/http"
	"minesweeper/internal/http/middleware"
	"minesweeper/internal/logger"
	"minesweeper/internal/service"
	"minesweeper/internal/timer"
	"minesweeper/internal/ws"

	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	presets, err := domain.PresetsByName(cfg.DifficultySet)
	if err != nil {
		logger.Fatal("invalid DIFFICULTY_SET", "error", err)
	}

	ctx := context.Background()
	be, err := openBackend(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open best time store", "store", cfg.BestTimeStore, "error", err)
	}
	defer be.Close()

	runner, err := service.NewRunner(service.RunnerOptions{
		Presets:           presets,
		DefaultDifficulty: cfg.DefaultDifficulty,
		Store:             be.store,
		NewSource:         func() timer.Source { return timer.NewTicker(cfg.TickInterval) },
	})
	if err != nil {
		logger.Fatal("failed to start game runner", "error", err)
	}
	defer runner.Close()

	hub := ws.NewHub(runner.Bus())
	defer hub.Close()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.CORS(cfg.AllowedOrigin))
	httpServer.RegisterRoutes(r, runner, hub, httpServer.RouteConfig{
		Version:       version,
		AllowedOrigin: cfg.AllowedOrigin,
		RateLimit:     cfg.APIRateLimit,
		RateWindow:    cfg.APIRateWindow,
		Redis:         be.redis,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "store", cfg.BestTimeStore, "difficulties", presets.Names())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
