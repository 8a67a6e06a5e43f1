package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "release", cfg.Mode)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadParsesTOML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
mode = "dev"

[storage]
path = "/tmp/custom.db"

[logging]
level = "debug"
file = "/tmp/mhxy.log"
max_size_mb = 32
max_files = 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Mode)
	require.Equal(t, "/tmp/custom.db", cfg.Storage.Path)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "/tmp/mhxy.log", cfg.Logging.File)
	require.Equal(t, 32, cfg.Logging.MaxSizeMB)
	require.Equal(t, 3, cfg.Logging.MaxFiles)
}

func TestLoadKeepsDefaultsForOmittedKeys(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `mode = "dev"`))
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Mode)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, 10, cfg.Logging.MaxSizeMB)
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, `mode = "staging"`))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, `
[logging]
level = "trace"
`))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, `mode = `))
	require.Error(t, err)
}

func TestDataPathPrefersOverride(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Storage.Path = "/tmp/custom.db"

	path, err := cfg.DataPath()
	require.NoError(t, err)
	require.Equal(t, "/tmp/custom.db", path)
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}
