package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownLevel) {
				t.Errorf("ParseLevel(%q) error = %v, want ErrUnknownLevel", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLevel(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger, _, err := New(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("scored", "tasks", 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if rec["msg"] != "scored" || rec["tasks"] != float64(3) {
		t.Errorf("record = %v", rec)
	}
}

func TestLevelVarControlsOutput(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger, lv, err := New(Config{Level: "warn", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info logged at warn level: %s", buf.String())
	}

	lv.Set(slog.LevelDebug)
	logger.Debug("shown")
	if !strings.Contains(buf.String(), "msg=shown") {
		t.Errorf("debug record missing after level change: %q", buf.String())
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	t.Parallel()
	if _, _, err := New(Config{Level: "loud"}); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("New(bad level) error = %v, want ErrUnknownLevel", err)
	}
	if _, _, err := New(Config{Format: "xml"}); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("New(bad format) error = %v, want ErrUnknownFormat", err)
	}
	if ValidFormat("xml") {
		t.Error("ValidFormat(xml) = true")
	}
}
