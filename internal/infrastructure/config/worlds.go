package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// WorldsConfig holds dynamic world definitions (read/write).
type WorldsConfig struct {
	Worlds map[string]WorldEntry `yaml:"worlds,omitempty"`
}

// WorldEntry holds configuration for a specific world.
type WorldEntry struct {
	Description string `yaml:"description,omitempty"`
	// InstanceID pins the game instance used by the world. Zero means the
	// most recent active instance.
	InstanceID int64 `yaml:"instance_id,omitempty"`
}

// LoadWorlds loads world configuration from the .silkroad directory.
func LoadWorlds(basePath string) (*WorldsConfig, error) {
	data, err := os.ReadFile(WorldsFilePath(basePath))
	if os.IsNotExist(err) {
		// Return empty config if file doesn't exist
		return &WorldsConfig{
			Worlds: make(map[string]WorldEntry),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading worlds file: %w", err)
	}

	var cfg WorldsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing worlds file: %w", err)
	}

	if cfg.Worlds == nil {
		cfg.Worlds = make(map[string]WorldEntry)
	}

	return &cfg, nil
}

// Save writes the worlds configuration to the worlds file.
func (w *WorldsConfig) Save(basePath string) error {
	if err := os.MkdirAll(ConfigDir(basePath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshaling worlds config: %w", err)
	}

	if err := os.WriteFile(WorldsFilePath(basePath), data, 0600); err != nil {
		return fmt.Errorf("writing worlds file: %w", err)
	}

	return nil
}

// Add adds a world to the configuration.
func (w *WorldsConfig) Add(name string, entry WorldEntry) {
	if w.Worlds == nil {
		w.Worlds = make(map[string]WorldEntry)
	}
	w.Worlds[name] = entry
}

// Remove removes a world from the configuration.
func (w *WorldsConfig) Remove(name string) {
	if w.Worlds != nil {
		delete(w.Worlds, name)
	}
}

// Get returns the configuration for a specific world.
func (w *WorldsConfig) Get(name string) (*WorldEntry, error) {
	if len(w.Worlds) == 0 {
		return nil, errors.New("no worlds configured")
	}

	entry, ok := w.Worlds[name]
	if !ok {
		var b strings.Builder
		count := 0
		for _, k := range w.Names() {
			if count > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			count++
			if count >= 5 {
				b.WriteString(", ...")
				break
			}
		}
		return nil, fmt.Errorf("world %q not found (available: %s)", name, b.String())
	}

	return &entry, nil
}

// SetInstance pins a world to a game instance, adding the world if needed.
func (w *WorldsConfig) SetInstance(name string, instanceID int64) {
	entry := w.Worlds[name]
	entry.InstanceID = instanceID
	w.Add(name, entry)
}

// InstanceID returns the pinned game instance of a world.
func (w *WorldsConfig) InstanceID(name string) (int64, error) {
	entry, err := w.Get(name)
	if err != nil {
		return 0, err
	}
	return entry.InstanceID, nil
}

// Exists checks if a world exists in the configuration.
func (w *WorldsConfig) Exists(name string) bool {
	if w.Worlds == nil {
		return false
	}
	_, ok := w.Worlds[name]
	return ok
}

// WorldsExists checks if a worlds config file exists in the given path.
func WorldsExists(basePath string) bool {
	_, err := os.Stat(WorldsFilePath(basePath))
	return err == nil
}

// Names returns the configured world names in sorted order.
func (w *WorldsConfig) Names() []string {
	names := make([]string, 0, len(w.Worlds))
	for name := range w.Worlds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
