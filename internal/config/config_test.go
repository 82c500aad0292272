package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
database:
  path: `+filepath.Join(dir, "data", "test.db")+`
redis:
  address: localhost:6379
  catalog_ttl_seconds: 60
lifecycle:
  tick_interval_seconds: 10
monitoring:
  health_check_port: 8090
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 10*time.Second, cfg.TickInterval())
	assert.Equal(t, time.Minute, cfg.CatalogTTL())
	assert.Equal(t, 8090, cfg.Monitoring.HealthCheckPort)
	assert.DirExists(t, filepath.Join(dir, "data"), "database directory is created")
}

func TestLoadDefaults(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(cwd)
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := Load(writeConfig(t, "{}"))
	require.NoError(t, err)

	assert.Equal(t, "data/mecarent.db", cfg.Database.Path)
	assert.Equal(t, 30*time.Second, cfg.TickInterval())
	assert.Equal(t, time.Duration(0), cfg.CatalogTTL(), "caching disabled by default")
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_REDIS_ADDR", "redis:6379")
	cfg, err := Load(writeConfig(t, `
database:
  path: `+filepath.Join(t.TempDir(), "db.sqlite")+`
redis:
  address: ${TEST_REDIS_ADDR}
`))
	require.NoError(t, err)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
