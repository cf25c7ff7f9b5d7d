package services

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tbeckers/worldvault/internal/backup"
)

var datedBackupPattern = regexp.MustCompile(`^backup_(\d{4}-\d{2}-\d{2})$`)

// pruneExpiredBackups removes dated backup directories whose date tag is older
// than the retention window. Only directories matching the backup_YYYY-MM-DD
// naming are considered; anything else in the backup root is left alone.
// Failures are logged and skipped, never fatal to the run that triggered the
// prune.
func (s *BackupService) pruneExpiredBackups(runID string) {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)

	entries, err := os.ReadDir(s.cfg.BackupPath)
	if err != nil {
		log.Warn().Err(err).Str("path", s.cfg.BackupPath).Msg("Could not read backup root for retention pruning")
		return
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m := datedBackupPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		tag, err := time.Parse(backup.DateTagLayout, m[1])
		if err != nil || !tag.Before(cutoff) {
			continue
		}

		path := filepath.Join(s.cfg.BackupPath, e.Name())
		if err := os.RemoveAll(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Could not remove expired backup")
			continue
		}
		log.Info().Str("path", path).Int("retention_days", s.cfg.RetentionDays).Msg("Removed expired backup")
		s.eventService.CreateEvent("retention.prune", "info", fmt.Sprintf("Removed expired backup '%s'.", e.Name()), &runID)
	}
}
