package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := writeConfig(t, "listen_addr: \":9000\"\nstorage_dir: /srv/files\nworkers: 4\nbuffer_size: 4096\n")
	t.Setenv("WORKERS", "16")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/srv/files", cfg.StorageDir)
	assert.Equal(t, 16, cfg.Workers)
	assert.Equal(t, 4096, cfg.BufferSize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(defaultMaxFieldBytes), cfg.MaxFieldBytes)
}

func TestLoadDefaultsWhenDefaultFileIsAbsent(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "workers: [1, 2"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.BufferSize = 16
	cfg.ShutdownTimeoutSec = 0
	require.NoError(t, cfg.Validate())
	assert.Equal(t, minBufferSize, cfg.BufferSize)
	assert.Equal(t, defaultShutdownTimeout, cfg.ShutdownTimeoutSec)

	cfg = Default()
	cfg.Workers = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.StorageDir = "  "
	assert.Error(t, cfg.Validate())
}
