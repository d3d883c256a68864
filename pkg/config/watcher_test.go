package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_ReloadOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("intake:\n  org_tag: NCCC\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}

	reloaded := make(chan *Config, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		_ = w.Watch(ctx, func(cfg *Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()
	defer w.Stop()

	// Give the watch loop time to register
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("intake:\n  org_tag: EDB\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Intake.OrgTag != "EDB" {
			t.Errorf("expected reloaded org tag EDB, got %q", cfg.Intake.OrgTag)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcher_InvalidChangeKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("intake:\n  org_tag: NCCC\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}

	reloaded := make(chan *Config, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = w.Watch(ctx, func(cfg *Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)

	// Invalid config must not reach the callback
	if err := os.WriteFile(path, []byte("storage:\n  backend: postgres\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		t.Errorf("invalid configuration delivered: %+v", cfg)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_DoubleStartRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = w.Watch(ctx, func(*Config) {}) }()
	time.Sleep(100 * time.Millisecond)
	defer w.Stop()

	if err := w.Watch(ctx, func(*Config) {}); err == nil {
		t.Fatal("expected second Watch() to fail")
	}
}
