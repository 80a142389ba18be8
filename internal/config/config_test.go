package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contrib.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
redis:
  addr: localhost:6379
  ttl: 1h
  mask: [password, token]
  fallback_keys: [b2xk]
http:
  port: "9090"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "1h", cfg.Redis.TTL)
	assert.Equal(t, []string{"password", "token"}, cfg.Redis.Mask)
	assert.Equal(t, []string{"b2xk"}, cfg.Redis.FallbackKeys)
	assert.Empty(t, cfg.Redis.EncryptionKey)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.HTTP.Metrics)
	assert.Equal(t, "stdio", cfg.MCP.Transport)
}

func TestLoad_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contrib.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_levle: debug\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "log_levle")
}
