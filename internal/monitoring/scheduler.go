package monitoring

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/tbeckers/worldvault/internal/models"
	"github.com/tbeckers/worldvault/internal/services"
)

// Scheduler checks for and executes scheduled backup runs.
type Scheduler struct {
	scheduleSvc services.ScheduleServiceProvider
	backupSvc   services.BackupServiceProvider
	eventSvc    services.EventServiceProvider
	ticker      *time.Ticker
	done        chan bool
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(scheduleSvc services.ScheduleServiceProvider, backupSvc services.BackupServiceProvider, eventSvc services.EventServiceProvider) *Scheduler {
	return &Scheduler{
		scheduleSvc: scheduleSvc,
		backupSvc:   backupSvc,
		eventSvc:    eventSvc,
		done:        make(chan bool),
	}
}

// Run starts the scheduler's ticking loop.
func (s *Scheduler) Run() {
	log.Info().Msg("Starting background scheduler...")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	// Run once immediately on start
	s.checkAndRunSchedules()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping background scheduler.")
			return
		case <-s.ticker.C:
			s.checkAndRunSchedules()
		}
	}
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.done <- true
}

// checkAndRunSchedules queries for due schedules and executes them.
func (s *Scheduler) checkAndRunSchedules() {
	schedules, err := s.scheduleSvc.GetAllActiveSchedules()
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: Failed to retrieve active schedules")
		return
	}

	for _, schedule := range schedules {
		cronSchedule, err := cron.ParseStandard(schedule.CronExpression)
		if err != nil {
			log.Error().Err(err).Str("schedule_id", schedule.ID).Msg("Scheduler: Invalid cron expression")
			continue
		}

		now := time.Now()
		// If NextRunAt is in the past, it's time to run
		if schedule.NextRunAt != nil && now.After(*schedule.NextRunAt) {
			go s.executeBackup(schedule)

			lastRun := now
			nextRun := cronSchedule.Next(now)
			s.scheduleSvc.UpdateScheduleRunTimes(schedule.ID, lastRun, nextRun)
		}
	}
}

// executeBackup performs the backup run a due schedule asks for. A run already
// in flight is not an error worth alerting on; the schedule simply waits for
// its next slot.
func (s *Scheduler) executeBackup(schedule models.Schedule) {
	log.Info().Str("schedule", schedule.Name).Msg("Scheduler: Executing scheduled backup run")

	_, err := s.backupSvc.ExecuteRun("schedule:" + schedule.Name)
	if errors.Is(err, services.ErrRunInProgress) {
		log.Warn().Str("schedule", schedule.Name).Msg("Scheduler: A run is already in progress, skipping this slot")
		return
	}
	if err != nil {
		msg := fmt.Sprintf("Scheduled backup '%s' failed: %v", schedule.Name, err)
		s.eventSvc.CreateEvent("schedule.execute.fail", "error", msg, nil)
		return
	}
	s.eventSvc.CreateEvent("schedule.execute.success", "info", fmt.Sprintf("Scheduled backup '%s' executed successfully.", schedule.Name), nil)
}
