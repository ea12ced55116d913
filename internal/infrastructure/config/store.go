package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// filePermissions is the permission mode for the config file.
const filePermissions = 0600

// Store wraps a Config with write-back persistence.
//
// The device section is mutated at runtime by the configuration migrator,
// the reset sequence, switch state persistence and layout changes. Mutators
// call MarkChanged after editing and Save when they want the change on disk.
//
// Thread Safety:
//   - All methods are safe for concurrent use. Callers that mutate the
//     Config directly must do so from a single event entry point at a time
//     (the orchestrator serialises its entry points).
type Store struct {
	mu        sync.Mutex
	cfg       *Config
	path      string
	changed   bool
	firstBoot bool
}

// NewStore creates a Store around a loaded Config.
func NewStore(cfg *Config, path string, firstBoot bool) *Store {
	return &Store{cfg: cfg, path: path, firstBoot: firstBoot}
}

// Open loads the config file at path and wraps it in a Store.
func Open(path string) (*Store, error) {
	cfg, firstBoot, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewStore(cfg, path, firstBoot), nil
}

// Config returns the wrapped configuration. The returned pointer is shared;
// mutations must be followed by MarkChanged.
func (s *Store) Config() *Config {
	return s.cfg
}

// FirstBoot reports whether the config file was absent at load time.
func (s *Store) FirstBoot() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstBoot
}

// MarkChanged records that the in-memory configuration differs from disk.
func (s *Store) MarkChanged() {
	s.mu.Lock()
	s.changed = true
	s.mu.Unlock()
}

// Changed reports whether there are unsaved modifications.
func (s *Store) Changed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

// Save writes the configuration back to its file and clears the changed
// marker. The directory is created if needed.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(s.cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, filePermissions); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	s.changed = false
	s.firstBoot = false
	return nil
}
