package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestInitWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "warn", true)
	defer Init("info", false)

	Info("hidden")
	Warn("shown", "difficulty", "expert")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["msg"] != "shown" || rec["difficulty"] != "expert" {
		t.Fatalf("record = %v", rec)
	}
}

func TestWithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "debug", false)
	defer Init("info", false)

	With("session_id", "abc").Debug("tick")
	out := buf.String()
	if !strings.Contains(out, "session_id=abc") || !strings.Contains(out, "msg=tick") {
		t.Fatalf("output = %q", out)
	}
}
