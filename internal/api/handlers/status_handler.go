package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/tbeckers/worldvault/internal/models"
	"github.com/tbeckers/worldvault/internal/services"
)

// StatusHandler reports service health and backup volume usage.
type StatusHandler struct {
	backupSvc  services.BackupServiceProvider
	backupPath string
	startedAt  time.Time
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(backupSvc services.BackupServiceProvider, backupPath string) *StatusHandler {
	return &StatusHandler{
		backupSvc:  backupSvc,
		backupPath: backupPath,
		startedAt:  time.Now(),
	}
}

// statusResponse is the JSON shape of GET /status.
type statusResponse struct {
	UptimeSeconds   int64       `json:"uptimeSeconds"`
	BackupPath      string      `json:"backupPath"`
	DiskTotalBytes  uint64      `json:"diskTotalBytes"`
	DiskFreeBytes   uint64      `json:"diskFreeBytes"`
	DiskUsedPercent float64     `json:"diskUsedPercent"`
	LastRun         *models.Run `json:"lastRun,omitempty"`
}

// Get handles the request for the current service status.
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		BackupPath:    h.backupPath,
	}

	if usage, err := disk.Usage(h.backupPath); err != nil {
		log.Warn().Err(err).Str("path", h.backupPath).Msg("Could not sample backup volume for status")
	} else {
		resp.DiskTotalBytes = usage.Total
		resp.DiskFreeBytes = usage.Free
		resp.DiskUsedPercent = usage.UsedPercent
	}

	if run, err := h.backupSvc.GetLatestRun(); err == nil {
		resp.LastRun = &run
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
