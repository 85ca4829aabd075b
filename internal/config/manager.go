package config

import (
	"context"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Manager serves the current configuration and hot-reloads it when the file
// changes on disk. A reloaded language applies to the next session only,
// which the daemon enforces through its reload hook.
type Manager struct {
	path string

	mu       sync.RWMutex
	config   *Config
	onReload func(*Config)

	watcher *fsnotify.Watcher
	wg      sync.WaitGroup
}

func NewManager() (*Manager, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return NewManagerAt(configPath)
}

func NewManagerAt(configPath string) (*Manager, error) {
	config, err := LoadFrom(configPath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Manager{
		path:   configPath,
		config: config,
	}, nil
}

func (m *Manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to prevent external modification
	configCopy := *m.config
	return &configCopy
}

// SetOnReload registers a hook invoked with the new config after every
// successful reload.
func (m *Manager) SetOnReload(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReload = fn
}

func (m *Manager) StartWatching(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	m.watcher = watcher

	if err := watcher.Add(filepath.Dir(m.path)); err != nil {
		watcher.Close()
		return err
	}

	m.wg.Add(1)
	go m.watchLoop(ctx)

	log.Printf("config: watching %s for changes", m.path)
	return nil
}

func (m *Manager) Stop() {
	if m.watcher != nil {
		m.watcher.Close()
	}
	m.wg.Wait()
}

func (m *Manager) watchLoop(ctx context.Context) {
	defer m.wg.Done()
	configFileName := filepath.Base(m.path)

	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != configFileName {
				continue
			}
			// Only react to Write and Create (ignore Chmod, Remove, etc.)
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
				log.Printf("config: file change detected, reloading")
				m.reload()
			}

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("config: watcher error: %v", err)

		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) reload() {
	newConfig, err := LoadFrom(m.path)
	if err != nil {
		log.Printf("config: failed to reload: %v", err)
		return
	}
	if err := newConfig.Validate(); err != nil {
		log.Printf("config: invalid config after reload: %v", err)
		return
	}

	m.mu.Lock()
	m.config = newConfig
	hook := m.onReload
	m.mu.Unlock()

	if hook != nil {
		hook(newConfig)
	}
	log.Printf("config: configuration reloaded")
}
