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

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  env: prod\n"))
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, ":8000", cfg.App.HTTPAddr)
	assert.Equal(t, 600, cfg.Telemetry.AccountTTLSec)
	assert.Equal(t, 0, cfg.Telemetry.HistoryTTLSec)
	assert.Equal(t, 100, cfg.Audit.RecentMax)
	assert.Equal(t, 10*time.Minute, cfg.Telemetry.AccountTTL())
	assert.Equal(t, time.Duration(0), cfg.Telemetry.HistoryTTL())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Telemetry.AccountTTLSec)
}

func TestLoadExplicitZeroTTL(t *testing.T) {
	cfg, err := Load(writeConfig(t, "telemetry:\n  account_ttl_sec: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Telemetry.AccountTTLSec,
		"an explicit zero disables account staleness instead of falling back to the default")
}

func TestLoadWeakTyping(t *testing.T) {
	cfg, err := Load(writeConfig(t, "telemetry:\n  account_ttl_sec: \"45\"\n  history_ttl_sec: 120\n"))
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.Telemetry.AccountTTLSec)
	assert.Equal(t, 120, cfg.Telemetry.HistoryTTLSec)
}

func TestLoadRejectsNegativeTTL(t *testing.T) {
	_, err := Load(writeConfig(t, "telemetry:\n  history_ttl_sec: -5\n"))
	assert.Error(t, err)
}
