package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	redis "github.com/redis/go-redis/v9"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func newLimitedRouter(h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/test", h, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestSimpleRateLimit(t *testing.T) {
	r := newLimitedRouter(SimpleRateLimit(2, time.Minute))

	get := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := get("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i, code)
		}
	}
	if code := get("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", code)
	}
	// other clients have their own window
	if code := get("10.0.0.2"); code != http.StatusOK {
		t.Fatalf("second client: expected 200 got %d", code)
	}
}

func TestSimpleRateLimitWindowResets(t *testing.T) {
	r := newLimitedRouter(SimpleRateLimit(1, 20*time.Millisecond))

	get := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		return w.Code
	}

	if code := get(); code != http.StatusOK {
		t.Fatalf("expected 200 got %d", code)
	}
	if code := get(); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", code)
	}
	time.Sleep(40 * time.Millisecond)
	if code := get(); code != http.StatusOK {
		t.Fatalf("after window: expected 200 got %d", code)
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS("https://mines.example"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://mines.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d; want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://mines.example" {
		t.Fatalf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("foreign origin allowed: %q", got)
	}
}

func TestSimpleRateLimitCountsByBackend(t *testing.T) {
	r := newLimitedRouter(SimpleRateLimit(1, time.Minute))
	allowed := LimiterAllowed.WithLabelValues(backendMemory, "/test")
	blocked := LimiterBlocked.WithLabelValues(backendMemory, "/test")
	a0, b0 := counterValue(t, allowed), counterValue(t, blocked)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.9.9.9:1234"
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	if got := counterValue(t, allowed) - a0; got != 1 {
		t.Errorf("allowed delta = %v; want 1", got)
	}
	if got := counterValue(t, blocked) - b0; got != 2 {
		t.Errorf("blocked delta = %v; want 2", got)
	}
}

func TestRedisRateLimitFailsOpen(t *testing.T) {
	// nothing listens on port 1
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	defer client.Close()

	r := newLimitedRouter(RedisRateLimit(client, 1, time.Minute))
	failOpen := LimiterFailOpen.WithLabelValues(backendRedis)
	before := counterValue(t, failOpen)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i, w.Code)
		}
		if w.Header().Get("X-RateLimit-Error") != "redis-error" {
			t.Fatalf("request %d: missing error header", i)
		}
	}
	if got := counterValue(t, failOpen) - before; got != 2 {
		t.Fatalf("fail-open delta = %v; want 2", got)
	}
}
