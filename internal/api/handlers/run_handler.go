package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/tbeckers/worldvault/internal/services"
)

// RunHandler handles HTTP requests related to backup runs.
type RunHandler struct {
	service services.BackupServiceProvider
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(service services.BackupServiceProvider) *RunHandler {
	return &RunHandler{service: service}
}

// GetRecent handles the request to get recent backup runs.
func (h *RunHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 20 // Default limit
	}

	runs, err := h.service.GetRecentRuns(limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve backup runs")
		http.Error(w, "Failed to retrieve runs: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// Get handles the request to get a single run by ID.
func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runId")
	run, err := h.service.GetRunByID(runID)
	if err != nil {
		http.Error(w, "Run not found: "+err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// GetLatest handles the request to get the most recent run.
func (h *RunHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	run, err := h.service.GetLatestRun()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// Trigger handles the request to start a new backup run.
func (h *RunHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	// A backup run can be long; execute it in the background and let the
	// client follow progress through the run history or the event stream.
	go func() {
		if _, err := h.service.ExecuteRun("api"); err != nil && !errors.Is(err, services.ErrRunInProgress) {
			log.Error().Err(err).Msg("Failed to execute backup run in background")
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"message": "Backup run started."})
}
