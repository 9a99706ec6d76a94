package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/AlibekovAA/places-api/internal/common/constants"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "api", "warn")

	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered, got %q", out)
	}
	if !strings.Contains(out, "[WARNING] [api]") || !strings.Contains(out, "shown") {
		t.Errorf("expected warning line, got %q", out)
	}
}

func TestLogger_FieldsAreSortedWithTraceID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "api", "debug")

	ctx := context.WithValue(context.Background(), constants.TraceIDKey, "abc123")
	log.WithFields(ctx, Fields{"user_id": "u1", "action": "login"}).Info("done")

	out := buf.String()
	if !strings.Contains(out, "[trace_id=abc123 action=login user_id=u1]") {
		t.Errorf("unexpected field rendering: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":    DEBUG,
		" INFO ":   INFO,
		"warn":     WARNING,
		"warning":  WARNING,
		"error":    ERROR,
		"critical": CRITICAL,
		"":         INFO,
		"verbose":  INFO,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_WritesToLogDir(t *testing.T) {
	dir := t.TempDir()
	log, err := New(dir, "api", "info")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !log.ShouldLog(INFO) || log.ShouldLog(DEBUG) {
		t.Error("unexpected level after New")
	}
}
