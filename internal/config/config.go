package config

import (
	"fmt"
	"os"
	"strconv"
)

// Run modes.
const (
	ModeRun   = "run"   // one-shot backup run, then exit
	ModeServe = "serve" // long-running scheduler + HTTP API
)

// Config holds the application configuration.
type Config struct {
	RunMode          string
	ServerPort       int
	ServerRoot       string // Root scanned for version directories
	BackupPath       string // Root under which dated backup folders are created
	DatabasePath     string
	LogFilePath      string
	VersionPrefix    string // Fixed literal identifying the server product
	WorldsDirName    string
	RetentionEnabled bool // Off by default; prunes expired dated backups when on
	RetentionDays    int
	MinFreeDiskMB    uint64 // Free-space floor on the backup volume (warning only)
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	retentionDays, err := strconv.Atoi(getEnv("RETENTION_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid RETENTION_DAYS: %w", err)
	}

	minFreeMB, err := strconv.ParseUint(getEnv("MIN_FREE_DISK_MB", "512"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MIN_FREE_DISK_MB: %w", err)
	}

	mode := getEnv("RUN_MODE", ModeRun)
	if mode != ModeRun && mode != ModeServe {
		return nil, fmt.Errorf("invalid RUN_MODE %q: must be %q or %q", mode, ModeRun, ModeServe)
	}

	return &Config{
		RunMode:          mode,
		ServerPort:       port,
		ServerRoot:       getEnv("SERVER_ROOT", "./bedrock"),
		BackupPath:       getEnv("BACKUP_PATH", "./backups"),
		DatabasePath:     getEnv("DATABASE_PATH", "./worldvault.db"),
		LogFilePath:      getEnv("LOG_FILE_PATH", "./logs/worldvault.log"),
		VersionPrefix:    getEnv("VERSION_PREFIX", "bedrock-server"),
		WorldsDirName:    getEnv("WORLDS_DIR_NAME", "worlds"),
		RetentionEnabled: getEnv("RETENTION_ENABLED", "false") == "true",
		RetentionDays:    retentionDays,
		MinFreeDiskMB:    minFreeMB,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
