package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		level  string
	}{
		{"ok", http.StatusOK, "hello", "INFO"},
		{"not found", http.StatusNotFound, "", "WARN"},
		{"server error", http.StatusInternalServerError, "boom", "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)

			r := chi.NewRouter()
			r.Use(Logger)
			r.Get("/api/inspections/{id}", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inspections/7", nil))

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("log output is not one JSON line: %v\n%s", err, buf.String())
			}
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
			if entry["status"] != float64(tt.status) {
				t.Errorf("status = %v, want %d", entry["status"], tt.status)
			}
			if entry["route"] != "/api/inspections/{id}" {
				t.Errorf("route = %v, want pattern", entry["route"])
			}
			if entry["bytes"] != float64(len(tt.body)) {
				t.Errorf("bytes = %v, want %d", entry["bytes"], len(tt.body))
			}
		})
	}
}
