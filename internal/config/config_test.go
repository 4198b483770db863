package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.FileExists(t, path)

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("database_file = \"maps.db\"\ncolor = false\ncache_size = 3\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "maps.db", cfg.DatabaseFile)
	assert.False(t, cfg.Color)
	assert.Equal(t, 3, cfg.CacheSize)
	assert.Equal(t, Default().LogFolder, cfg.LogFolder)
	assert.Equal(t, filepath.Join(cfg.DatabaseDir, "maps.db"), cfg.DatabasePath())
}

func TestLoadRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("color = [not toml"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv(EnvPrefix+"LOG_LEVEL", "debug")
	t.Setenv(EnvPrefix+"BASE_FOLDER", "/srv/notes")
	t.Setenv(EnvPrefix+"COLOR", "false")
	t.Setenv(EnvPrefix+"CACHE_SIZE", "8")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/srv/notes", cfg.BaseFolder)
	assert.False(t, cfg.Color)
	assert.Equal(t, 8, cfg.CacheSize)

	t.Setenv(EnvPrefix+"CACHE_SIZE", "zero")
	_, err = Load(path)
	assert.Error(t, err)

	t.Setenv(EnvPrefix+"CACHE_SIZE", "8")
	t.Setenv(EnvPrefix+"COLOR", "maybe")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestConfigSaveAndReload(t *testing.T) {
	old := Path()
	t.Cleanup(func() { SetPath(old) })
	SetPath(filepath.Join(t.TempDir(), "config.toml"))

	require.NoError(t, ConfigLoad())
	cfg := ConfigGet()
	cfg.LogLevel = "warn"
	cfg.HistoryFile = "/tmp/history"
	require.NoError(t, ConfigSave(cfg))

	require.NoError(t, ConfigLoad())
	assert.Equal(t, "warn", ConfigGet().LogLevel)
	assert.Equal(t, "/tmp/history", ConfigGet().HistoryFile)
}
