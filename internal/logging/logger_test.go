package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func captureJSON(t *testing.T) (*bytes.Buffer, func()) {
	t.Helper()
	prev := slog.Default()
	var buf bytes.Buffer
	SetupWriter(&buf, "debug", "json")
	return &buf, func() { slog.SetDefault(prev) }
}

func TestFromContext_RequestIDAndFields(t *testing.T) {
	buf, restore := captureJSON(t)
	defer restore()

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	ctx = ContextWithFields(ctx, "file", "a.csv")
	ctx = ContextWithFields(ctx, "encoding", "latin1")

	WithFields(ctx, "run_id", "r1").Info("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (%q)", err, buf.String())
	}
	want := map[string]string{
		"msg":        "hello",
		"request_id": "req-42",
		"file":       "a.csv",
		"encoding":   "latin1",
		"run_id":     "r1",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("entry[%q] = %v, want %q", k, entry[k], v)
		}
	}
}

func TestSetupWriter_TextFormatAndLevel(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetupWriter(&buf, "warn", "text")

	slog.Info("dropped")
	slog.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "msg=kept") {
		t.Errorf("warn line missing from text output: %q", out)
	}
}
