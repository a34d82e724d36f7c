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
	path := writeConfig(t, `
server:
  port: 8080
  base_url: https://chickens.example.com
redis:
  addr: redis:6379
game:
  play_timeout: 45
  lobby_max_age: 6
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://chickens.example.com", cfg.Server.BaseURL)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 45*time.Second, cfg.Game.PlayTimeoutDuration())
	assert.Equal(t, 6*time.Hour, cfg.Game.LobbyMaxAgeDuration())

	// Omitted fields pick up defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 10*time.Minute, cfg.Game.SweepIntervalDuration())
	assert.Equal(t, 300*time.Millisecond, cfg.Game.DrawDebounceDuration())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REDIS_ADDR", "override:6379")
	t.Setenv("AUTH_SECRET", "hunter2")
	t.Setenv("PORT", "9999")

	path := writeConfig(t, "redis:\n  addr: file:6379\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "override:6379", cfg.Redis.Addr)
	assert.Equal(t, "hunter2", cfg.Auth.Secret)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Zero(t, cfg.Game.PlayTimeoutDuration(), "no play clock unless configured")
}
