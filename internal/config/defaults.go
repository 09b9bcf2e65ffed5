package config

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:            "http://localhost:8000",
			RequestTimeout: "30s",
		},
		Stream: StreamConfig{
			MaxRetries:     5,
			InitialBackoff: "1s",
		},
		Capture: CaptureConfig{
			Enabled: false,
			Dir:     filepath.Join(stateDir(), "captures"),
		},
		Notifications: NotificationsConfig{
			Terminal: true,
			Desktop:  false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(stateDir(), "stratdeck.log"),
		},
	}
}

// DefaultPath returns the config file location,
// ~/.config/stratdeck/config.toml.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "stratdeck", "config.toml")
	}
	return filepath.Join(stateDir(), "config.toml")
}

// InitialBackoffDuration parses the configured backoff, falling back
// to one second on a bad value.
func (c *Config) InitialBackoffDuration() time.Duration {
	if d, err := time.ParseDuration(c.Stream.InitialBackoff); err == nil && d > 0 {
		return d
	}
	return time.Second
}

func stateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".stratdeck"
	}
	return filepath.Join(home, ".stratdeck")
}
