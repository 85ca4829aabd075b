package config

import "time"

// DefaultConfig is also what a missing config file resolves to.
func DefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			Language: "en-US",
		},
		Recognizer: RecognizerConfig{
			Provider:   "deepgram",
			Model:      "nova-3",
			BaseURL:    "wss://api.deepgram.com",
			SampleRate: 16000,
			Device:     "",
			Timeout:    3 * time.Second,
		},
		Export: ExportConfig{
			Directory: "",
		},
		Notifications: NotificationsConfig{
			Enabled: true,
			Type:    "desktop",
		},
	}
}
