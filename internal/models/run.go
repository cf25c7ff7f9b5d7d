package models

import "time"

// Run statuses. A run that finds an empty worlds folder is not a failure; it
// simply produces no artifacts.
const (
	RunStatusSuccess     = "success"
	RunStatusEmptyWorlds = "empty_worlds"
	RunStatusFailed      = "failed"
)

// Run represents a single backup run, successful or not.
type Run struct {
	ID          string    `json:"id"`
	VersionDir  string    `json:"versionDir"`
	Destination string    `json:"destinationPath"`
	TotalBytes  int64     `json:"totalBytes"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	TriggeredBy string    `json:"triggeredBy"` // e.g. "manual", "api", "schedule:<name>"
	DurationMS  int64     `json:"durationMs"`
	CreatedAt   time.Time `json:"createdAt"`
}
