// ABOUTME: Settings manager with validate-or-rollback saves and JSON persistence.
// ABOUTME: The manager is the only writer of the settings file.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SavedMessage is returned to callers when a change is accepted.
const SavedMessage = "Settings saved successfully"

// Provider hands out the current accepted settings.
type Provider interface {
	Current() Settings
}

// Manager owns the accepted settings for one user on this device.
type Manager struct {
	path    string
	mu      sync.RWMutex
	current Settings
}

// DefaultPath returns $XDG_CONFIG_HOME/bandwidth/settings.json.
func DefaultPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "bandwidth", "settings.json")
}

// NewManager loads settings from path, falling back to defaults when absent.
// An empty path keeps settings in memory only.
func NewManager(path string) (*Manager, error) {
	m := &Manager{path: path, current: Default()}
	if path == "" {
		return m, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var loaded Settings
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	if err := loaded.Validate(); err != nil {
		return nil, fmt.Errorf("stored settings invalid: %w", err)
	}
	m.current = loaded
	return m, nil
}

// NewStatic returns an in-memory manager seeded with s.
func NewStatic(s Settings) *Manager {
	return &Manager{current: s.Clone()}
}

// Current returns a copy of the accepted settings.
func (m *Manager) Current() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Clone()
}

// Save validates next and persists it. On failure the prior settings stay in
// effect and the returned error is a *ValidationError or a write error.
func (m *Manager) Save(next Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.current
	m.current = next.Clone()
	if err := m.persist(); err != nil {
		m.current = prev
		return err
	}
	return nil
}

// Update applies fn to a copy of the current settings and saves the result.
func (m *Manager) Update(fn func(*Settings)) error {
	next := m.Current()
	fn(&next)
	return m.Save(next)
}

// ToggleCategory enables or disables a category and saves.
func (m *Manager) ToggleCategory(c Category, enabled bool) error {
	return m.Update(func(s *Settings) { s.ToggleCategory(c, enabled) })
}

// ResetToDefaults replaces the settings with Default().
func (m *Manager) ResetToDefaults() error {
	return m.Save(Default())
}

func (m *Manager) persist() error {
	if m.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0750); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	data, err := json.MarshalIndent(m.current, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
