package config

import "time"

type Config struct {
	Session       SessionConfig       `toml:"session"`
	Recognizer    RecognizerConfig    `toml:"recognizer"`
	Export        ExportConfig        `toml:"export"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// SessionConfig holds settings applied on the next session start.
type SessionConfig struct {
	Language string `toml:"language"` // BCP-47 tag from the supported catalog
}

// RecognizerConfig selects and configures the external recognition provider.
type RecognizerConfig struct {
	Provider   string        `toml:"provider"` // "deepgram" or "script"
	APIKey     string        `toml:"api_key"`
	Model      string        `toml:"model"`
	BaseURL    string        `toml:"base_url"`
	SampleRate int           `toml:"sample_rate"`
	Device     string        `toml:"device"`
	Timeout    time.Duration `toml:"timeout"` // permission probe timeout
}

type ExportConfig struct {
	Directory string `toml:"directory"`
}

type NotificationsConfig struct {
	Enabled bool   `toml:"enabled"`
	Type    string `toml:"type"` // "desktop", "log", "none"
}
