package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbeckers/worldvault/internal/models"
)

func TestPublishNeverBlocksWithoutListeners(t *testing.T) {
	hub := NewHub()

	// No Run loop, no clients. Publishing past the buffer must drop, not hang.
	msg := []byte(`{"action":"event"}`)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish(msg)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with no listeners")
	}
}

func TestHubDeliversToRegisteredClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil)
	hub.Register <- client

	payload, err := NewEventMessage(models.Event{ID: "e1", Type: "run.start", Level: "info"})
	require.NoError(t, err)
	hub.Publish(payload)

	select {
	case got := <-client.Send:
		assert.JSONEq(t, string(payload), string(got))
	case <-time.After(time.Second):
		t.Fatal("broadcast never reached the client")
	}

	hub.Unregister <- client
	_, open := <-client.Send
	assert.False(t, open, "Send is closed on unregister")
}
