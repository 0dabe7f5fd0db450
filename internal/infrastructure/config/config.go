// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for silkroad configuration.
	DefaultConfigDir = ".silkroad"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultWorldsFile is the default worlds file name.
	DefaultWorldsFile = "worlds.yaml"
	// DefaultDBFile is the database file name inside a world directory.
	DefaultDBFile = "silkroad.db"
)

var (
	// reNonAlphanumeric matches characters that aren't alphanumeric or underscore.
	reNonAlphanumeric = regexp.MustCompile(`[^a-z0-9_]`)
	// reMultipleUnderscores matches consecutive underscores.
	reMultipleUnderscores = regexp.MustCompile(`_+`)
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	SQLite    SQLiteConfig    `yaml:"sqlite,omitempty"`
	Game      GameConfig      `yaml:"game,omitempty"`
	Snapshot  SnapshotConfig  `yaml:"snapshot,omitempty"`
	Random    RandomConfig    `yaml:"random,omitempty"`
	Log       LogConfig       `yaml:"log,omitempty"`
	Telemetry TelemetryConfig `yaml:"telemetry,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite relational database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	// When empty, the path is computed per world using SQLitePathForWorld.
	Path string `yaml:"path,omitempty" env:"SILKROAD_DB_PATH"`
}

// GameConfig holds the game rules that are not stored in the world graph.
type GameConfig struct {
	Type   string `yaml:"type,omitempty"`
	Player string `yaml:"player,omitempty" env:"SILKROAD_PLAYER"`
}

// SnapshotConfig controls the per-phase JSON snapshots of a turn.
type SnapshotConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Dir      string `yaml:"dir,omitempty" env:"SILKROAD_SNAPSHOT_DIR"`
	Compress bool   `yaml:"compress,omitempty" env:"SILKROAD_SNAPSHOT_COMPRESS"`
}

// RandomConfig holds the random source configuration.
type RandomConfig struct {
	// Seed makes turns reproducible. Zero draws a seed from the OS.
	Seed uint64 `yaml:"seed,omitempty" env:"SILKROAD_RANDOM_SEED"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" env:"SILKROAD_LOG_LEVEL"`
	Format string `yaml:"format,omitempty" env:"SILKROAD_LOG_FORMAT"`
}

// TelemetryConfig holds OpenTelemetry tracing configuration.
type TelemetryConfig struct {
	// Endpoint is the OTLP/HTTP collector address. Empty disables export.
	Endpoint    string `yaml:"endpoint,omitempty" env:"SILKROAD_OTEL_ENDPOINT"`
	ServiceName string `yaml:"service_name,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			Type:   "silkroad",
			Player: "Player",
		},
		Snapshot: SnapshotConfig{
			Enabled: true,
			Dir:     "snapshots",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "silkroad",
		},
	}
}

// Load loads configuration from the .silkroad directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'silkroad init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides. Unset variables
// leave the file values in place.
func (c *Config) applyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ConfigDir returns the path to the .silkroad config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// WorldsFilePath returns the path to the worlds file.
func WorldsFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultWorldsFile)
}

// Exists checks if a silkroad config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}

// SanitizeWorldName converts a world name to a valid directory name.
func SanitizeWorldName(name string) string {
	// Convert to lowercase
	name = strings.ToLower(name)

	// Replace spaces and hyphens with underscores
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")

	// Remove any characters that aren't alphanumeric or underscore
	name = reNonAlphanumeric.ReplaceAllString(name, "")

	// Remove consecutive underscores
	name = reMultipleUnderscores.ReplaceAllString(name, "_")

	// Trim leading/trailing underscores
	name = strings.Trim(name, "_")

	if name == "" {
		return "default"
	}

	return name
}

// SQLitePathForWorld returns the SQLite database path for a given world.
func SQLitePathForWorld(basePath, worldName string) string {
	return filepath.Join(WorldDir(basePath, worldName), DefaultDBFile)
}

// WorldDir returns the directory path for a given world.
func WorldDir(basePath, worldName string) string {
	return filepath.Join(basePath, DefaultConfigDir, "worlds", SanitizeWorldName(worldName))
}

// SnapshotDirForWorld resolves the snapshot directory of a world. Relative
// directories are placed inside the world directory.
func (c *Config) SnapshotDirForWorld(basePath, worldName string) string {
	dir := c.Snapshot.Dir
	if dir == "" {
		dir = "snapshots"
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(WorldDir(basePath, worldName), dir)
}

// DBPathForWorld returns the configured database path, falling back to the
// per-world default.
func (c *Config) DBPathForWorld(basePath, worldName string) string {
	if c.SQLite.Path != "" {
		return c.SQLite.Path
	}
	return SQLitePathForWorld(basePath, worldName)
}
