package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.toml")
	configContent := `
[backend]
url = "http://analysis.internal:9000"

[stream]
max_retries = 10
initial_backoff = "250ms"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Backend.URL != "http://analysis.internal:9000" {
		t.Errorf("expected backend url 'http://analysis.internal:9000', got '%s'", cfg.Backend.URL)
	}
	if cfg.Stream.MaxRetries != 10 {
		t.Errorf("expected max_retries 10, got %d", cfg.Stream.MaxRetries)
	}
	if got := cfg.InitialBackoffDuration(); got != 250*time.Millisecond {
		t.Errorf("expected initial backoff 250ms, got %s", got)
	}
}

func TestLoadConfigWithDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(configPath, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Should have defaults
	if cfg.Backend.URL != "http://localhost:8000" {
		t.Errorf("expected default backend url 'http://localhost:8000', got '%s'", cfg.Backend.URL)
	}
	if cfg.Stream.MaxRetries != 5 {
		t.Errorf("expected default max_retries 5, got %d", cfg.Stream.MaxRetries)
	}
	if !cfg.Notifications.Terminal {
		t.Error("expected terminal notifications enabled by default")
	}
}

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := LoadOrCreate(configPath)
	if err != nil {
		t.Fatalf("failed to create config: %v", err)
	}
	if cfg.Backend.URL != "http://localhost:8000" {
		t.Errorf("expected default backend url, got '%s'", cfg.Backend.URL)
	}

	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("expected config file to be written: %v", err)
	}

	reloaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if reloaded.Stream.MaxRetries != cfg.Stream.MaxRetries {
		t.Errorf("reloaded config differs: %d vs %d", reloaded.Stream.MaxRetries, cfg.Stream.MaxRetries)
	}
}

func TestInitialBackoffDurationBadValue(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stream.InitialBackoff = "not-a-duration"
	if got := cfg.InitialBackoffDuration(); got != time.Second {
		t.Errorf("expected 1s fallback, got %s", got)
	}
}
