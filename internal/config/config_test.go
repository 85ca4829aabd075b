package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create temp config file: %v", err)
	}
	return configPath
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}
	if cfg.Session.Language != "en-US" {
		t.Errorf("Session.Language = %q, want default en-US", cfg.Session.Language)
	}
	if cfg.Recognizer.Provider != "deepgram" {
		t.Errorf("Recognizer.Provider = %q, want default deepgram", cfg.Recognizer.Provider)
	}
}

func TestLoadFromPartialFileKeepsDefaults(t *testing.T) {
	path := writeTempConfig(t, `
[session]
language = "hi-IN"

[recognizer]
provider = "script"
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}
	if cfg.Session.Language != "hi-IN" {
		t.Errorf("Session.Language = %q, want hi-IN", cfg.Session.Language)
	}
	if cfg.Recognizer.Provider != "script" {
		t.Errorf("Recognizer.Provider = %q, want script", cfg.Recognizer.Provider)
	}
	if cfg.Recognizer.SampleRate != 16000 {
		t.Errorf("Recognizer.SampleRate = %d, want default 16000", cfg.Recognizer.SampleRate)
	}
	if !cfg.Notifications.Enabled {
		t.Error("Notifications.Enabled = false, want default true")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Recognizer.Provider = "script"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(c *Config) {}, false},
		{"deepgram without key passes structurally", func(c *Config) { c.Recognizer.Provider = "deepgram"; c.Recognizer.APIKey = "" }, false},
		{"invalid language", func(c *Config) { c.Session.Language = "klingon" }, true},
		{"empty language allowed", func(c *Config) { c.Session.Language = "" }, false},
		{"unknown provider", func(c *Config) { c.Recognizer.Provider = "siri" }, true},
		{"empty provider", func(c *Config) { c.Recognizer.Provider = "" }, true},
		{"zero sample rate", func(c *Config) { c.Recognizer.SampleRate = 0 }, true},
		{"bad notifications type", func(c *Config) { c.Notifications.Type = "carrier-pigeon" }, true},
		{"log notifications", func(c *Config) { c.Notifications.Type = "log" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetConfigReturnsACopy(t *testing.T) {
	path := writeTempConfig(t, "[recognizer]\nprovider = \"script\"\n")

	m, err := NewManagerAt(path)
	if err != nil {
		t.Fatalf("NewManagerAt() failed: %v", err)
	}

	cfg := m.GetConfig()
	cfg.Session.Language = "mutated"

	if m.GetConfig().Session.Language == "mutated" {
		t.Error("GetConfig() must return a copy, not the live config")
	}
}

func TestManagerReloadInvokesHook(t *testing.T) {
	path := writeTempConfig(t, `
[session]
language = "en-US"

[recognizer]
provider = "script"
`)

	m, err := NewManagerAt(path)
	if err != nil {
		t.Fatalf("NewManagerAt() failed: %v", err)
	}

	var reloaded atomic.Bool
	var gotLang atomic.Value
	m.SetOnReload(func(cfg *Config) {
		gotLang.Store(cfg.Session.Language)
		reloaded.Store(true)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := m.StartWatching(ctx); err != nil {
		t.Fatalf("StartWatching() failed: %v", err)
	}
	defer m.Stop()

	content := "[session]\nlanguage = \"fr-FR\"\n\n[recognizer]\nprovider = \"script\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for !reloaded.Load() {
		select {
		case <-deadline:
			t.Fatal("reload hook was not invoked within timeout")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if lang, _ := gotLang.Load().(string); lang != "fr-FR" {
		t.Errorf("reload hook got language %q, want fr-FR", lang)
	}
	if m.GetConfig().Session.Language != "fr-FR" {
		t.Errorf("GetConfig().Session.Language = %q, want fr-FR", m.GetConfig().Session.Language)
	}
}

func TestInvalidReloadKeepsOldConfig(t *testing.T) {
	path := writeTempConfig(t, "[recognizer]\nprovider = \"script\"\n")

	m, err := NewManagerAt(path)
	if err != nil {
		t.Fatalf("NewManagerAt() failed: %v", err)
	}

	m.reload() // no-op sanity

	if err := os.WriteFile(path, []byte("[recognizer]\nprovider = \"siri\"\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	m.reload()

	if got := m.GetConfig().Recognizer.Provider; got != "script" {
		t.Errorf("provider after invalid reload = %q, want previous value kept", got)
	}
}
