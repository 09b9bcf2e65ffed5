package config

// Config holds the main stratdeck configuration
type Config struct {
	Backend       BackendConfig       `toml:"backend"`
	Stream        StreamConfig        `toml:"stream"`
	Capture       CaptureConfig       `toml:"capture"`
	Notifications NotificationsConfig `toml:"notifications"`
	Logging       LoggingConfig       `toml:"logging"`
}

type BackendConfig struct {
	URL            string `toml:"url"`
	RequestTimeout string `toml:"request_timeout"`
}

type StreamConfig struct {
	MaxRetries     int    `toml:"max_retries"`
	InitialBackoff string `toml:"initial_backoff"`
}

type CaptureConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type NotificationsConfig struct {
	Terminal bool `toml:"terminal"`
	Desktop  bool `toml:"desktop"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
