package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tbeckers/worldvault/internal/models"
	"github.com/tbeckers/worldvault/internal/websocket"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(eventType, level, message string, runID *string) error
	GetRecentEvents(limit int) ([]models.Event, error)
}

// EventService records audit events and mirrors them to the websocket hub.
type EventService struct {
	db  *sql.DB
	hub *websocket.Hub
}

// NewEventService creates a new EventService. hub may be nil when no live
// event stream is wanted (one-shot runs).
func NewEventService(db *sql.DB, hub *websocket.Hub) *EventService {
	return &EventService{db: db, hub: hub}
}

// CreateEvent logs a new event to the database and broadcasts it to any
// connected websocket clients.
func (s *EventService) CreateEvent(eventType, level, message string, runID *string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		RunID:     runID,
		CreatedAt: time.Now(),
	}

	stmt, err := s.db.Prepare("INSERT INTO events (id, type, level, message, run_id, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(event.ID, event.Type, event.Level, event.Message, event.RunID, event.CreatedAt); err != nil {
		return err
	}

	if s.hub != nil {
		payload, err := websocket.NewEventMessage(event)
		if err != nil {
			log.Warn().Err(err).Str("event_type", eventType).Msg("Could not encode event for broadcast")
			return nil
		}
		s.hub.Publish(payload)
	}
	return nil
}

// GetRecentEvents retrieves the most recent events from the database.
func (s *EventService) GetRecentEvents(limit int) ([]models.Event, error) {
	rows, err := s.db.Query("SELECT id, type, level, message, run_id, created_at FROM events ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.RunID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
