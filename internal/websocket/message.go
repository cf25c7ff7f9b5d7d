package websocket

import (
	"encoding/json"

	"github.com/tbeckers/worldvault/internal/models"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewEventMessage encodes an audit event for broadcast.
func NewEventMessage(event models.Event) ([]byte, error) {
	return json.Marshal(Message{Action: "event", Payload: event})
}
