package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, ":8080", c.Server.ListenAddr)
	assert.Equal(t, 4, c.Server.BatchConcurrency)
	assert.Equal(t, "info", c.Log.Level)
	assert.Empty(t, c.Storage.DatabaseURL)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  listen_addr: ":9090"
  batch_concurrency: 8
log:
  level: debug
analysis:
  rules_dir: /etc/fa/rules
`), 0o644))

	t.Setenv("FA_LOG_LEVEL", "warn")
	t.Setenv("FA_CACHE_DIR", "/tmp/fa-cache")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.Server.ListenAddr)
	assert.Equal(t, 8, c.Server.BatchConcurrency)
	assert.Equal(t, "warn", c.Log.Level)
	assert.Equal(t, "/tmp/fa-cache", c.Storage.CacheDir)
	assert.Equal(t, "/etc/fa/rules", c.Analysis.RulesDir)
	assert.Equal(t, 20.0, c.Server.RateLimit)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.Server.ListenAddr)
}

func TestLoad_BadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [1, 2"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	t.Setenv("FA_BATCH_CONCURRENCY", "many")
	_, err = Load("")
	assert.Error(t, err)
}
