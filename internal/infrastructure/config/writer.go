package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# Silk Road Configuration

game:
  type: silkroad
  player: Player

sqlite:
  # path: /absolute/path/silkroad.db (or set SILKROAD_DB_PATH env var)

snapshot:
  enabled: true
  dir: snapshots
  compress: false

random:
  # seed: 42 (or set SILKROAD_RANDOM_SEED env var; 0 picks a random seed)

log:
  level: info
  format: text

telemetry:
  service_name: silkroad
  # endpoint: http://localhost:4318 (or set SILKROAD_OTEL_ENDPOINT env var)
`

// WriteDefault creates the .silkroad directory and writes a default config file.
func WriteDefault(basePath string) error {
	configFile := ConfigFilePath(basePath)

	if err := os.MkdirAll(ConfigDir(basePath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Write writes the given config to the config file.
func Write(basePath string, cfg *Config) error {
	if err := os.MkdirAll(ConfigDir(basePath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(ConfigFilePath(basePath), data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
