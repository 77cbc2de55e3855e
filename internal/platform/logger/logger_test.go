package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, "stock-chart", Config{Level: slog.LevelInfo})
	l.Debug("hidden")
	l.Info("chart built", "symbol", "AAPL")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if rec["service"] != "stock-chart" || rec["symbol"] != "AAPL" || rec["msg"] != "chart built" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestNew_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, "chart", Config{Level: slog.LevelDebug, Format: "text"}).Debug("warm", "n", 3)
	if !strings.Contains(buf.String(), "service=chart") || !strings.Contains(buf.String(), "n=3") {
		t.Errorf("unexpected text output: %q", buf.String())
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "TEXT")

	cfg := LoadConfig()
	if cfg.Level != slog.LevelWarn || cfg.Format != "text" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}
