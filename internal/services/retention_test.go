package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbeckers/worldvault/internal/backup"
	"github.com/tbeckers/worldvault/internal/models"
)

func seedBackupDir(t *testing.T, root, name string) string {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(path, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "data.bin"), []byte("x"), 0644))
	return path
}

func TestPruneExpiredBackups(t *testing.T) {
	svc, cfg := newTestService(t)
	cfg.RetentionDays = 30

	expired := seedBackupDir(t, cfg.BackupPath, "backup_"+time.Now().AddDate(0, 0, -45).Format(backup.DateTagLayout))
	recent := seedBackupDir(t, cfg.BackupPath, "backup_"+time.Now().AddDate(0, 0, -5).Format(backup.DateTagLayout))
	unrelated := seedBackupDir(t, cfg.BackupPath, "manual-copy")
	badTag := seedBackupDir(t, cfg.BackupPath, "backup_2023-13-99")

	svc.pruneExpiredBackups("run-1")

	assert.NoDirExists(t, expired)
	assert.DirExists(t, recent)
	assert.DirExists(t, unrelated, "directories outside the dated naming are never touched")
	assert.DirExists(t, badTag, "unparseable date tags are never touched")
}

func TestRetentionRunsOnlyWhenEnabled(t *testing.T) {
	svc, cfg := newTestService(t)
	worlds := seedServer(t, cfg.ServerRoot, "bedrock-server-1.21.0")
	require.NoError(t, os.WriteFile(filepath.Join(worlds, "w.mcworld"), []byte("w"), 0644))

	expired := seedBackupDir(t, cfg.BackupPath, "backup_"+time.Now().AddDate(0, 0, -90).Format(backup.DateTagLayout))

	// Disabled by default: a successful run leaves old backups alone.
	run, err := svc.ExecuteRun("manual")
	require.NoError(t, err)
	require.Equal(t, models.RunStatusSuccess, run.Status)
	assert.DirExists(t, expired)

	// Enabled: the next successful run prunes it.
	cfg.RetentionEnabled = true
	_, err = svc.ExecuteRun("manual")
	require.NoError(t, err)
	assert.NoDirExists(t, expired)
}
