package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("EASYAPI_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8787", cfg.Server.Addr)
	assert.Equal(t, 300*time.Millisecond, cfg.Server.Latency)
	assert.Equal(t, "http://127.0.0.1:8787", cfg.Client.BaseURL)
	assert.True(t, cfg.Client.Cancellation)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[cache]
enabled = false
ttl = "30s"

[log]
level = "debug"
`), 0o644))
	t.Setenv("EASYAPI_CONFIG", path)
	t.Setenv("EASYAPI_SERVER_ADDR", ":9999")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestLoadRejectsNegativeTTL(t *testing.T) {
	t.Setenv("EASYAPI_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("EASYAPI_CACHE_TTL", "-1s")

	_, err := Load(New())
	assert.ErrorContains(t, err, "cache.ttl")
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[cache\n"), 0o644))
	t.Setenv("EASYAPI_CONFIG", path)

	_, err := Load(New())
	assert.ErrorContains(t, err, "read config")
}
