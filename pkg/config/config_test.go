package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Intake.OrgTag != "ORG" {
		t.Errorf("expected default org tag ORG, got %q", cfg.Intake.OrgTag)
	}
	if cfg.Intake.TransitionPolicy != "permissive" {
		t.Errorf("expected permissive policy, got %q", cfg.Intake.TransitionPolicy)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("expected sqlite backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.SQLite.BusyTimeout != 5*time.Second {
		t.Errorf("expected 5s busy timeout, got %v", cfg.Storage.SQLite.BusyTimeout)
	}
	if !cfg.Audit.Enabled {
		t.Error("expected audit enabled by default")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled by default")
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
intake:
  org_tag: NCCC
  transition_policy: strict
storage:
  backend: sqlite
  sqlite:
    path: /var/lib/custodia/evidence.db
blob:
  driver: memory
telemetry:
  logging:
    level: debug
    format: text
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Intake.OrgTag != "NCCC" {
		t.Errorf("expected org tag NCCC, got %q", cfg.Intake.OrgTag)
	}
	if cfg.Intake.TransitionPolicy != "strict" {
		t.Errorf("expected strict policy, got %q", cfg.Intake.TransitionPolicy)
	}
	if cfg.Storage.SQLite.Path != "/var/lib/custodia/evidence.db" {
		t.Errorf("unexpected sqlite path %q", cfg.Storage.SQLite.Path)
	}
	// Unset fields fall back to defaults
	if cfg.Storage.SQLite.BusyTimeout != 5*time.Second {
		t.Errorf("expected default busy timeout, got %v", cfg.Storage.SQLite.BusyTimeout)
	}
	if cfg.Telemetry.Logging.Level != "debug" || cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("unexpected logging config: %+v", cfg.Telemetry.Logging)
	}
	if !cfg.Audit.Enabled {
		t.Error("audit should default to enabled when absent from file")
	}
}

func TestLoadConfig_FileMissing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "intake: [not a mapping")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	path := writeConfigFile(t, `
storage:
  backend: cassandra
`)
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if !strings.Contains(vErr.Error(), "storage.backend") {
		t.Errorf("expected storage.backend in error, got: %v", vErr)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
intake:
  org_tag: NCCC
`)

	t.Setenv("CUSTODIA_INTAKE_ORG_TAG", "EDB")
	t.Setenv("CUSTODIA_STORAGE_BACKEND", "memory")
	t.Setenv("CUSTODIA_AUDIT_ENABLED", "false")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() failed: %v", err)
	}

	if cfg.Intake.OrgTag != "EDB" {
		t.Errorf("env override lost: org tag %q", cfg.Intake.OrgTag)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("env override lost: backend %q", cfg.Storage.Backend)
	}
	if cfg.Audit.Enabled {
		t.Error("env override lost: audit still enabled")
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	path := writeConfigFile(t, "")

	t.Setenv("CUSTODIA_INTAKE_TRANSITION_POLICY", "yolo")

	if _, err := LoadConfigWithEnvOverrides(path); err == nil {
		t.Fatal("expected validation to reject invalid override")
	}
}
