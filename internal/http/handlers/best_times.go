package handlers

import (
	"net/http"

	"minesweeper/internal/logger"

	"github.com/gin-gonic/gin"
)

// GetBestTimes lists the record of every difficulty; 999 means none yet.
func (h *Handler) GetBestTimes(c *gin.Context) {
	times, err := h.Runner.BestTimes(c.Request.Context())
	if err != nil {
		logger.Error("failed to read best times", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "best time store error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"best_times": times})
}

// ResetBestTimes removes every record.
func (h *Handler) ResetBestTimes(c *gin.Context) {
	if err := h.Runner.ResetBestTimes(c.Request.Context()); err != nil {
		logger.Error("failed to reset best times", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "best time store error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ListDifficulties returns the configured presets in declaration order.
func (h *Handler) ListDifficulties(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"difficulties": h.Runner.Presets().All()})
}
