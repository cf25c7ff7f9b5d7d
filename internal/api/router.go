package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tbeckers/worldvault/internal/api/handlers"
	"github.com/tbeckers/worldvault/internal/services"
	"github.com/tbeckers/worldvault/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(hub *websocket.Hub, backupService services.BackupServiceProvider, eventService services.EventServiceProvider, scheduleService services.ScheduleServiceProvider, backupPath string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	runHandler := handlers.NewRunHandler(backupService)
	eventHandler := handlers.NewEventHandler(eventService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	statusHandler := handlers.NewStatusHandler(backupService, backupPath)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// WebSocket event stream
		r.Get("/ws", wsHandler.Serve)

		r.Get("/status", statusHandler.Get)

		r.Route("/runs", func(r chi.Router) {
			r.Get("/", runHandler.GetRecent)
			r.Post("/", runHandler.Trigger)
			r.Get("/latest", runHandler.GetLatest)
			r.Get("/{runId}", runHandler.Get)
		})

		r.Get("/events", eventHandler.GetRecent)

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", scheduleHandler.GetAll)
			r.Post("/", scheduleHandler.Create)
			r.Route("/{scheduleId}", func(r chi.Router) {
				r.Put("/", scheduleHandler.Update)
				r.Delete("/", scheduleHandler.Delete)
			})
		})
	})

	return r
}
