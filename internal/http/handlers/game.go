package handlers

import (
	"net/http"

	"minesweeper/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NewGameRequest starts a session; an empty difficulty keeps the last one.
type NewGameRequest struct {
	Difficulty string `json:"difficulty"`
}

// ActionRequest addresses one cell of a session. Row and Col are pointers so
// that zero passes the required check.
type ActionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Row       *int   `json:"row" binding:"required"`
	Col       *int   `json:"col" binding:"required"`
}

type actionFunc func(id uuid.UUID, row, col int) (service.Snapshot, error)

// GetGame returns the current session.
func (h *Handler) GetGame(c *gin.Context) {
	c.JSON(http.StatusOK, h.Runner.State())
}

// NewGame discards the current session and starts another.
func (h *Handler) NewGame(c *gin.Context) {
	var req NewGameRequest
	// an empty body is a valid request
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
			return
		}
	}
	snap, err := h.Runner.NewGame(req.Difficulty)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) Reveal(c *gin.Context) { h.action(c, h.Runner.Reveal) }

func (h *Handler) Chord(c *gin.Context) { h.action(c, h.Runner.Chord) }

func (h *Handler) Flag(c *gin.Context) { h.action(c, h.Runner.ToggleFlag) }

func (h *Handler) action(c *gin.Context, fn actionFunc) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	id, err := uuid.Parse(req.SessionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session_id"})
		return
	}
	snap, err := fn(id, *req.Row, *req.Col)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
