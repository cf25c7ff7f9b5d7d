package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const timeFormat = "2006-01-02 15:04:05"

// Init configures the global logger to echo human-readable output to the
// console and append the same lines to the given log file. The log file's
// parent directory is created if absent.
func Init(logFilePath string) error {
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: timeFormat}
	fileOut := zerolog.ConsoleWriter{Out: file, TimeFormat: timeFormat, NoColor: true}
	log.Logger = log.Output(zerolog.MultiLevelWriter(console, fileOut))

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	return nil
}
