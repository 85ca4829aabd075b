package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	s2tDir := filepath.Join(configDir, "s2t")
	if err := os.MkdirAll(s2tDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(s2tDir, "config.toml"), nil
}

// Load reads the config file, falling back to defaults when it does not
// exist. Values the file omits keep their defaults.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

func LoadFrom(configPath string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Printf("config: %s not found, using defaults", configPath)
		config.applyEnv()
		return config, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat config file %s: %w", configPath, err)
	}

	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.applyEnv()
	log.Printf("config: loaded configuration from %s", configPath)
	return config, nil
}

// applyEnv fills the API key from the environment when the file left it empty.
func (c *Config) applyEnv() {
	if c.Recognizer.APIKey == "" {
		c.Recognizer.APIKey = os.Getenv("DEEPGRAM_API_KEY")
	}
}
