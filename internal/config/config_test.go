package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeRun, cfg.RunMode)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "./bedrock", cfg.ServerRoot)
	assert.Equal(t, "./backups", cfg.BackupPath)
	assert.Equal(t, "bedrock-server", cfg.VersionPrefix)
	assert.Equal(t, "worlds", cfg.WorldsDirName)
	assert.False(t, cfg.RetentionEnabled)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.Equal(t, uint64(512), cfg.MinFreeDiskMB)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("RUN_MODE", "serve")
	t.Setenv("PORT", "9090")
	t.Setenv("SERVER_ROOT", "/srv/bedrock")
	t.Setenv("VERSION_PREFIX", "paper-server")
	t.Setenv("RETENTION_ENABLED", "true")
	t.Setenv("RETENTION_DAYS", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeServe, cfg.RunMode)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "/srv/bedrock", cfg.ServerRoot)
	assert.Equal(t, "paper-server", cfg.VersionPrefix)
	assert.True(t, cfg.RetentionEnabled)
	assert.Equal(t, 7, cfg.RetentionDays)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	t.Setenv("RUN_MODE", "daemon")
	_, err := Load()
	assert.Error(t, err)
}
