// Package config loads the tool's TOML configuration file with defaults
// suitable for running without one.
package config

import (
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/hibobby/mhxy-skill-tools/internal/storage"
)

const (
	defaultLogLevel     = "info"
	defaultLogMaxSizeMB = 10
	defaultLogMaxFiles  = 5
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	// Mode selects the data file location: "dev" keeps it next to the
	// checkout, "release" uses the per-user application data directory.
	Mode    string        `toml:"mode"`
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
}

type StorageConfig struct {
	// Path overrides the mode-derived data file location when set.
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level     string `toml:"level"`
	File      string `toml:"file"`
	MaxSizeMB int    `toml:"max_size_mb"`
	MaxFiles  int    `toml:"max_files"`
}

func Default() Config {
	return Config{
		Mode: string(storage.ModeRelease),
		Logging: LoggingConfig{
			Level:     defaultLogLevel,
			MaxSizeMB: defaultLogMaxSizeMB,
			MaxFiles:  defaultLogMaxFiles,
		},
	}
}

// Load reads the config at path, falling back to defaults when path is
// empty or the file does not exist.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch storage.Mode(c.Mode) {
	case storage.ModeDev, storage.ModeRelease, "":
	default:
		return fmt.Errorf("%w: mode must be %q or %q, got %q", ErrInvalidConfig, storage.ModeDev, storage.ModeRelease, c.Mode)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Logging.Level)
	}
	return nil
}

// DataPath resolves the data file location: the explicit override when
// configured, otherwise the mode-dependent platform path.
func (c Config) DataPath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	return storage.ResolveDataPath(storage.Mode(c.Mode))
}
