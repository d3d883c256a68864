package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("Setup() failed: %v", err)
	}

	logger.Info("intake recorded", "device_id", 42)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "intake recorded" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["device_id"] != float64(42) {
		t.Errorf("unexpected device_id: %v", entry["device_id"])
	}
}

func TestSetup_TextAndLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Level: "warn", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("Setup() failed: %v", err)
	}

	logger.Info("should be filtered")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Error("info message not filtered at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn message missing")
	}
}

func TestSetup_InstallsDefault(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Setup(Config{Level: "debug", Format: "json", Writer: &buf}); err != nil {
		t.Fatal(err)
	}

	slog.Default().Debug("via default")
	if !strings.Contains(buf.String(), "via default") {
		t.Error("default logger not installed")
	}
}

func TestSetup_InvalidInputs(t *testing.T) {
	if _, err := Setup(Config{Level: "loud"}); err == nil {
		t.Error("expected error for invalid level")
	}
	if _, err := Setup(Config{Format: "xml"}); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"silly", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr != (err != nil) {
			t.Errorf("ParseLevel(%q) error = %v", tt.in, err)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
