package handlers

import (
	"errors"
	"net/http"

	"minesweeper/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Runner *service.Runner
}

func NewHandler(runner *service.Runner) *Handler {
	return &Handler{Runner: runner}
}

// statusFor maps runner errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrStaleSession):
		return http.StatusConflict
	case errors.Is(err, service.ErrOutOfRange), errors.Is(err, service.ErrUnknownDifficulty):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrRunnerClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}
