package config

import (
	"fmt"

	"github.com/SidoJain/speech-to-text/internal/language"
	"github.com/SidoJain/speech-to-text/internal/recognizer"
)

func (c *Config) Validate() error {
	if c.Session.Language != "" && !language.IsValidTag(c.Session.Language) {
		return fmt.Errorf("invalid session.language: %s (use a supported locale tag like 'en-US' or 'hi-IN')", c.Session.Language)
	}

	if c.Recognizer.Provider == "" {
		return fmt.Errorf("invalid recognizer.provider: empty")
	}
	if !recognizer.Supported(c.Recognizer.Provider) {
		return fmt.Errorf("unknown recognizer.provider: %s (supported: %v)", c.Recognizer.Provider, recognizer.Providers())
	}
	if c.Recognizer.SampleRate <= 0 {
		return fmt.Errorf("invalid recognizer.sample_rate: %d", c.Recognizer.SampleRate)
	}

	switch c.Notifications.Type {
	case "", "desktop", "log", "none":
	default:
		return fmt.Errorf("invalid notifications.type: %s (use 'desktop', 'log' or 'none')", c.Notifications.Type)
	}

	return nil
}
