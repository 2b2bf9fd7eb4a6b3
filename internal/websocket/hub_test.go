package websocket

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func addClient(hub *Hub, gameID string, buffer int) *Client {
	client := &Client{
		GameID: gameID,
		Send:   make(chan []byte, buffer),
		Hub:    hub,
	}
	hub.mutex.Lock()
	hub.clients[client] = true
	hub.gameClients[gameID] = append(hub.gameClients[gameID], client)
	hub.mutex.Unlock()
	return client
}

func TestBroadcastToGame_DeliversToGameClients(t *testing.T) {
	hub := NewHub(testLogger())
	watcher := addClient(hub, "g1", 4)
	other := addClient(hub, "g2", 4)

	hub.BroadcastToGame("g1", Event{Type: "stint_recorded", GameID: "g1"})

	require.Len(t, watcher.Send, 1)
	assert.Empty(t, other.Send, "clients watching another game must not receive the event")
	assert.Equal(t, 2, hub.GetConnectionCount())
}

func TestBroadcastToGame_DropsSlowClient(t *testing.T) {
	hub := NewHub(testLogger())
	fast := addClient(hub, "g1", 4)
	slow := addClient(hub, "g1", 1)
	slow.Send <- []byte("backlog") // fill the buffer so the next send cannot land

	hub.BroadcastToGame("g1", Event{Type: "stint_recorded", GameID: "g1"})

	// The slow client is fully detached: gone from both maps, channel closed.
	assert.Equal(t, 1, hub.GetConnectionCount())
	assert.Len(t, hub.gameClients["g1"], 1)
	_, open := <-slow.Send // drains the backlog message
	assert.True(t, open)
	_, open = <-slow.Send
	assert.False(t, open, "dropped client's send channel must be closed")

	// Follow-up broadcasts must reach the healthy client without touching
	// the dropped one's closed channel.
	assert.NotPanics(t, func() {
		hub.BroadcastToGame("g1", Event{Type: "recommendation", GameID: "g1"})
	})
	assert.Len(t, fast.Send, 2)
}

func TestBroadcastToGame_LastClientDroppedClearsGame(t *testing.T) {
	hub := NewHub(testLogger())
	slow := addClient(hub, "g1", 1)
	slow.Send <- []byte("backlog")

	hub.BroadcastToGame("g1", Event{Type: "stint_recorded", GameID: "g1"})

	hub.mutex.RLock()
	_, tracked := hub.gameClients["g1"]
	hub.mutex.RUnlock()
	assert.False(t, tracked, "empty game entry must be deleted")
	assert.Equal(t, 0, hub.GetConnectionCount())
}

func TestRemoveClient_Idempotent(t *testing.T) {
	hub := NewHub(testLogger())
	client := addClient(hub, "g1", 1)

	// A slow-consumer drop can race the client's own unregister; the second
	// removal must not close the channel again.
	assert.NotPanics(t, func() {
		hub.mutex.Lock()
		hub.removeClientLocked(client)
		hub.removeClientLocked(client)
		hub.mutex.Unlock()
	})
	assert.Equal(t, 0, hub.GetConnectionCount())
}
