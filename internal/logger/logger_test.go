package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/pinsetter/pinsetter/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if err != nil {
			t.Errorf("ParseLevel(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseLevel_Unknown(t *testing.T) {
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, config.LogConfig{Level: "info", Format: "json"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.Debug("hidden")
	l.Info("lane opened", "lane", "3")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if rec["msg"] != "lane opened" || rec["lane"] != "3" {
		t.Errorf("record = %v", rec)
	}
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, config.LogConfig{Level: "debug", Format: "text", NoColor: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.Debug("frame scored", "frame", 4)

	out := buf.String()
	if !strings.Contains(out, "frame scored") || !strings.Contains(out, "frame=4") {
		t.Errorf("text output = %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("no_color output contains ANSI escapes: %q", out)
	}
}

func TestSetLevel(t *testing.T) {
	for _, format := range []string{"json", "text"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(&buf, config.LogConfig{Level: "error", Format: format, NoColor: true})
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			l.Info("before")
			if buf.Len() != 0 {
				t.Fatalf("info logged at error level: %q", buf.String())
			}

			l.SetLevel(slog.LevelDebug)
			if l.Level() != slog.LevelDebug {
				t.Errorf("Level() = %v, want debug", l.Level())
			}
			l.Info("after")
			if !strings.Contains(buf.String(), "after") {
				t.Errorf("info not logged after SetLevel(debug): %q", buf.String())
			}
		})
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []config.LogConfig{
		{Level: "loud", Format: "json"},
		{Level: "info", Format: "xml"},
	}
	for _, cfg := range tests {
		if _, err := New(&bytes.Buffer{}, cfg); err == nil {
			t.Errorf("New(%+v): expected error", cfg)
		}
	}
}
