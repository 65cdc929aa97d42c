package integration

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"minesweeper/internal/domain"
	httpserver "minesweeper/internal/http"
	"minesweeper/internal/repository"
	"minesweeper/internal/service"
	"minesweeper/internal/timer"
	"minesweeper/internal/ws"
)

// idleSource never ticks; the API tests do not depend on the clock.
type idleSource struct{}

func (idleSource) Start(func()) {}
func (idleSource) Stop()        {}

type server struct {
	router *gin.Engine
	runner *service.Runner
	hub    *ws.Hub
}

func newServer(t *testing.T, source timer.Source) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if source == nil {
		source = idleSource{}
	}
	runner, err := service.NewRunner(service.RunnerOptions{
		Presets:   domain.StandardPresets(),
		Store:     repository.NewMemoryBestTimeStore(),
		Seed:      11,
		NewSource: func() timer.Source { return source },
	})
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	hub := ws.NewHub(runner.Bus())
	t.Cleanup(func() {
		hub.Close()
		runner.Close()
	})

	r := gin.New()
	httpserver.RegisterRoutes(r, runner, hub, httpserver.RouteConfig{Version: "test"})
	return &server{router: r, runner: runner, hub: hub}
}

func (s *server) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type cellView struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	State  string `json:"state"`
	Value  *int   `json:"value"`
	Marker string `json:"marker"`
}

type snapshot struct {
	SessionID      string            `json:"session_id"`
	Difficulty     domain.Difficulty `json:"difficulty"`
	State          string            `json:"state"`
	ElapsedSeconds int               `json:"elapsed_seconds"`
	MinesRemaining int               `json:"mines_remaining"`
	Board          [][]cellView      `json:"board"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d; want %d (body %s)", w.Code, want, w.Body.String())
	}
}
