package monitoring

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/tbeckers/worldvault/internal/services"
)

// DiskMonitor periodically samples the backup volume and records an alert when
// free space drops below the configured floor.
type DiskMonitor struct {
	eventSvc   services.EventServiceProvider
	backupPath string
	floorMB    uint64
	ticker     *time.Ticker
	done       chan bool
	lastAlert  time.Time
}

// NewDiskMonitor creates a new DiskMonitor.
func NewDiskMonitor(eventSvc services.EventServiceProvider, backupPath string, floorMB uint64) *DiskMonitor {
	return &DiskMonitor{
		eventSvc:   eventSvc,
		backupPath: backupPath,
		floorMB:    floorMB,
		done:       make(chan bool),
	}
}

// Run starts the periodic sampling.
func (m *DiskMonitor) Run() {
	log.Info().Str("path", m.backupPath).Msg("Starting backup volume monitor...")
	m.ticker = time.NewTicker(5 * time.Minute)
	defer m.ticker.Stop()

	// Sample once immediately on start
	m.sample()

	for {
		select {
		case <-m.done:
			log.Info().Msg("Stopping backup volume monitor.")
			return
		case <-m.ticker.C:
			m.sample()
		}
	}
}

// Stop halts the periodic sampling.
func (m *DiskMonitor) Stop() {
	m.done <- true
}

func (m *DiskMonitor) sample() {
	const alertCooldown = 15 * time.Minute

	usage, err := disk.Usage(m.backupPath)
	if err != nil {
		log.Warn().Err(err).Str("path", m.backupPath).Msg("DiskMonitor: Could not sample backup volume")
		return
	}

	freeMB := usage.Free / (1024 * 1024)
	if freeMB >= m.floorMB {
		return
	}
	if time.Since(m.lastAlert) < alertCooldown {
		return
	}

	msg := fmt.Sprintf("Backup volume has %d MB free (%.1f%% used), below the %d MB floor.", freeMB, usage.UsedPercent, m.floorMB)
	log.Warn().Uint64("free_mb", freeMB).Float64("used_percent", usage.UsedPercent).Msg("Low free space on backup volume")
	m.eventSvc.CreateEvent("system.alert.disk", "warn", msg, nil)
	m.lastAlert = time.Now()
}
