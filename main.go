package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tbeckers/worldvault/internal/api"
	"github.com/tbeckers/worldvault/internal/config"
	"github.com/tbeckers/worldvault/internal/database"
	"github.com/tbeckers/worldvault/internal/logger"
	"github.com/tbeckers/worldvault/internal/monitoring"
	"github.com/tbeckers/worldvault/internal/services"
	"github.com/tbeckers/worldvault/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set up logging (console echo + log file)
	if err := logger.Init(cfg.LogFilePath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Ensure the base directory for backups exists
	if err := os.MkdirAll(cfg.BackupPath, 0755); err != nil {
		log.Error().Err(err).Msg("Failed to create base backup directory")
		os.Exit(1)
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize database")
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Error().Err(err).Msg("Failed to apply database migrations")
		os.Exit(1)
	}

	// Set up WebSocket hub. Events published while no loop is running are
	// simply dropped, so the hub is safe to share with one-shot runs.
	hub := websocket.NewHub()

	// Set up services
	eventService := services.NewEventService(db, hub)
	backupService := services.NewBackupService(db, eventService, cfg)
	scheduleService := services.NewScheduleService(db, eventService)

	if cfg.RunMode == config.ModeRun {
		runOnce(backupService)
		return
	}

	serve(cfg, hub, backupService, eventService, scheduleService)
}

// runOnce executes a single backup run and signals the outcome through the
// exit code. An empty worlds folder is a warning, not a failure.
func runOnce(backupService services.BackupServiceProvider) {
	if _, err := backupService.ExecuteRun("manual"); err != nil {
		log.Error().Msg("Backup operation failed.")
		os.Exit(1)
	}
}

// serve runs the long-lived mode: websocket hub, cron-driven scheduler, disk
// monitor and the HTTP API, with graceful shutdown on SIGINT/SIGTERM.
func serve(cfg *config.Config, hub *websocket.Hub, backupService *services.BackupService, eventService *services.EventService, scheduleService *services.ScheduleService) {
	go hub.Run()

	// Set up and run the background scheduler
	scheduler := monitoring.NewScheduler(scheduleService, backupService, eventService)
	go scheduler.Run()

	// Set up and run the backup volume monitor
	diskMonitor := monitoring.NewDiskMonitor(eventService, cfg.BackupPath, cfg.MinFreeDiskMB)
	go diskMonitor.Run()

	// Set up router
	router := api.NewRouter(hub, backupService, eventService, scheduleService, cfg.BackupPath)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Error().Err(err).Msg("ListenAndServe()")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()
	diskMonitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("Server exiting")
}
