package websocket

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_StartStopIdempotent(t *testing.T) {
	hub := NewHub(slog.Default())

	hub.Start()
	hub.Start() // second call is a no-op

	assert.Equal(t, 0, hub.ClientCount())

	hub.Stop()
	hub.Stop() // and so is a second stop
}

func TestHub_BroadcastToRegisteredClient(t *testing.T) {
	hub := NewHub(slog.Default())
	hub.Start()
	defer hub.Stop()

	client := &Client{
		id:          "test-client",
		hub:         hub,
		send:        make(chan []byte, 4),
		logger:      slog.Default(),
		connectedAt: time.Now(),
	}
	hub.register <- client

	// First message on the channel is the connection greeting.
	select {
	case payload := <-client.send:
		var event Event
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, TypeConnection, event.Type)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for greeting")
	}

	hub.Broadcast(TypeSnapshotRefresh, map[string]int{"rows": 42})

	select {
	case payload := <-client.send:
		var event Event
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, TypeSnapshotRefresh, event.Type)
		assert.NotEmpty(t, event.Timestamp)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub(slog.Default())
	hub.Start()
	defer hub.Stop()

	client := &Client{
		id:          "going-away",
		hub:         hub,
		send:        make(chan []byte, 4),
		logger:      slog.Default(),
		connectedAt: time.Now(),
	}
	hub.register <- client
	<-client.send // greeting

	hub.unregister <- client

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)

	_, open := <-client.send
	assert.False(t, open, "send channel must be closed on unregister")
}
