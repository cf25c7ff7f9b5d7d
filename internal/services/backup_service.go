package services

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/tbeckers/worldvault/internal/backup"
	"github.com/tbeckers/worldvault/internal/config"
	"github.com/tbeckers/worldvault/internal/models"
)

// ErrRunInProgress is returned when a backup run is requested while another is
// still executing. Runs against the same backup root are never interleaved.
var ErrRunInProgress = errors.New("a backup run is already in progress")

// BackupServiceProvider defines the interface for backup services.
type BackupServiceProvider interface {
	ExecuteRun(triggeredBy string) (models.Run, error)
	GetRecentRuns(limit int) ([]models.Run, error)
	GetRunByID(runID string) (models.Run, error)
	GetLatestRun() (models.Run, error)
}

// BackupService executes backup runs and keeps their history.
type BackupService struct {
	db           *sql.DB
	eventService EventServiceProvider
	cfg          *config.Config
	mu           sync.Mutex
}

// NewBackupService creates a new BackupService.
func NewBackupService(db *sql.DB, eventService EventServiceProvider, cfg *config.Config) *BackupService {
	return &BackupService{
		db:           db,
		eventService: eventService,
		cfg:          cfg,
	}
}

// ExecuteRun performs one full backup run: select the most recently updated
// version directory, enumerate its worlds folder, copy each entry into a dated
// destination and sum what was written. The run is recorded in the history
// whatever its outcome. Only one run executes at a time; a second caller gets
// ErrRunInProgress instead of queueing.
func (s *BackupService) ExecuteRun(triggeredBy string) (models.Run, error) {
	if !s.mu.TryLock() {
		return models.Run{}, ErrRunInProgress
	}
	defer s.mu.Unlock()

	started := time.Now()
	run := models.Run{
		ID:          uuid.New().String(),
		Status:      models.RunStatusFailed,
		TriggeredBy: triggeredBy,
		CreatedAt:   started,
	}
	dateTag := started.Format(backup.DateTagLayout)

	log.Info().Str("run_id", run.ID).Str("triggered_by", triggeredBy).Msg("Backup run started")
	s.eventService.CreateEvent("run.start", "info", fmt.Sprintf("Backup run started (%s).", triggeredBy), &run.ID)

	versionDir, err := backup.SelectLatestVersionDir(s.cfg.ServerRoot, s.cfg.VersionPrefix)
	if err != nil {
		return s.failRun(run, started, err)
	}
	run.VersionDir = versionDir.Name
	log.Info().Str("version_dir", versionDir.Name).Time("modified", versionDir.ModTime).Msg("Selected latest version directory")

	entries, err := backup.ListWorldEntries(versionDir.Path, s.cfg.WorldsDirName)
	if err != nil {
		return s.failRun(run, started, err)
	}

	if len(entries) == 0 {
		run.Status = models.RunStatusEmptyWorlds
		run.Message = fmt.Sprintf("worlds folder of %s is empty, nothing to back up", versionDir.Name)
		log.Warn().Str("version_dir", versionDir.Name).Msg("Worlds folder is empty, nothing to back up")
		s.eventService.CreateEvent("run.warning", "warn", run.Message, &run.ID)
		return s.saveRun(run, started)
	}

	s.checkFreeSpace(run.ID)

	dest, err := backup.WriteBackup(entries, s.cfg.BackupPath, dateTag, func(oldName, newName string) {
		log.Info().Str("from", oldName).Str("to", newName).Msg("Copied world entry")
		s.eventService.CreateEvent("run.copy", "info", fmt.Sprintf("Copied '%s' to '%s'.", oldName, newName), &run.ID)
	})
	run.Destination = dest
	if err != nil {
		return s.failRun(run, started, err)
	}

	total, err := backup.ComputeTotalSize(dest)
	if err != nil {
		return s.failRun(run, started, err)
	}
	run.TotalBytes = total
	run.Status = models.RunStatusSuccess
	run.Message = fmt.Sprintf("backup of %d entries completed, %s written to %s", len(entries), backup.FormatMiB(total), dest)
	log.Info().Str("destination", dest).Int64("total_bytes", total).Str("total_size", backup.FormatMiB(total)).Msg("Backup run completed")
	s.eventService.CreateEvent("run.complete", "info", run.Message, &run.ID)

	if s.cfg.RetentionEnabled {
		s.pruneExpiredBackups(run.ID)
	}

	return s.saveRun(run, started)
}

// failRun records a failed run and propagates the error to the caller.
func (s *BackupService) failRun(run models.Run, started time.Time, cause error) (models.Run, error) {
	run.Status = models.RunStatusFailed
	run.Message = cause.Error()
	log.Error().Err(cause).Str("run_id", run.ID).Msg("Backup run failed")
	s.eventService.CreateEvent("run.fail", "error", cause.Error(), &run.ID)
	if saved, err := s.saveRun(run, started); err == nil {
		run = saved
	}
	return run, cause
}

func (s *BackupService) saveRun(run models.Run, started time.Time) (models.Run, error) {
	run.DurationMS = time.Since(started).Milliseconds()

	stmt, err := s.db.Prepare(`
		INSERT INTO runs (id, version_dir, destination, total_bytes, status, message, triggered_by, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return run, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(run.ID, run.VersionDir, run.Destination, run.TotalBytes, run.Status, run.Message, run.TriggeredBy, run.DurationMS, run.CreatedAt)
	if err != nil {
		log.Error().Err(err).Str("run_id", run.ID).Msg("Could not record backup run")
		return run, err
	}
	return run, nil
}

// checkFreeSpace samples the backup volume before copying. Low space is a
// warning, not a failure; the copy itself surfaces any real disk-full error.
func (s *BackupService) checkFreeSpace(runID string) {
	usage, err := disk.Usage(s.cfg.BackupPath)
	if err != nil {
		log.Warn().Err(err).Str("path", s.cfg.BackupPath).Msg("Could not determine free space on backup volume")
		return
	}
	freeMB := usage.Free / (1024 * 1024)
	if freeMB < s.cfg.MinFreeDiskMB {
		msg := fmt.Sprintf("Backup volume has %d MB free, below the %d MB floor.", freeMB, s.cfg.MinFreeDiskMB)
		log.Warn().Uint64("free_mb", freeMB).Msg("Low free space on backup volume")
		s.eventService.CreateEvent("system.alert.disk", "warn", msg, &runID)
	}
}

// GetRecentRuns retrieves the most recent runs from the history.
func (s *BackupService) GetRecentRuns(limit int) ([]models.Run, error) {
	rows, err := s.db.Query(`
		SELECT id, version_dir, destination, total_bytes, status, message, triggered_by, duration_ms, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// GetRunByID retrieves a single run by its ID.
func (s *BackupService) GetRunByID(runID string) (models.Run, error) {
	row := s.db.QueryRow(`
		SELECT id, version_dir, destination, total_bytes, status, message, triggered_by, duration_ms, created_at
		FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Run{}, fmt.Errorf("run with id %s not found", runID)
		}
		return models.Run{}, err
	}
	return run, nil
}

// GetLatestRun retrieves the most recent run, successful or not.
func (s *BackupService) GetLatestRun() (models.Run, error) {
	row := s.db.QueryRow(`
		SELECT id, version_dir, destination, total_bytes, status, message, triggered_by, duration_ms, created_at
		FROM runs ORDER BY created_at DESC LIMIT 1`)
	run, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Run{}, fmt.Errorf("no backup runs recorded yet")
		}
		return models.Run{}, err
	}
	return run, nil
}

func scanRun(scanner interface{ Scan(...interface{}) error }) (models.Run, error) {
	var run models.Run
	err := scanner.Scan(
		&run.ID,
		&run.VersionDir,
		&run.Destination,
		&run.TotalBytes,
		&run.Status,
		&run.Message,
		&run.TriggeredBy,
		&run.DurationMS,
		&run.CreatedAt,
	)
	return run, err
}
