package websocket

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now (should be restricted in production)
	},
}

// Event is the envelope pushed to scoreboard clients.
type Event struct {
	Type    string      `json:"type"` // "stint_recorded", "recommendation"
	GameID  string      `json:"game_id"`
	Payload interface{} `json:"payload"`
}

// Client represents a WebSocket client watching one game
type Client struct {
	GameID string
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub
}

// Hub maintains active WebSocket connections and broadcasts game events
type Hub struct {
	clients     map[*Client]bool
	gameClients map[string][]*Client
	register    chan *Client
	unregister  chan *Client
	logger      *logrus.Logger
	mutex       sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		gameClients: make(map[string][]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		logger:      logger,
	}
}

// Run starts the hub and handles client registration/unregistration
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.gameClients[client.GameID] = append(h.gameClients[client.GameID], client)
			h.mutex.Unlock()

			h.logger.WithFields(logrus.Fields{
				"game_id":       client.GameID,
				"total_clients": h.GetConnectionCount(),
			}).Info("WebSocket client connected")

		case client := <-h.unregister:
			h.mutex.Lock()
			h.removeClientLocked(client)
			h.mutex.Unlock()

			h.logger.WithFields(logrus.Fields{
				"game_id":       client.GameID,
				"total_clients": h.GetConnectionCount(),
			}).Info("WebSocket client disconnected")
		}
	}
}

// removeClientLocked drops a client from both maps and closes its send
// channel. Caller must hold the write lock. A client may be removed twice
// (slow-consumer drop racing its own unregister), so repeated calls no-op.
func (h *Hub) removeClientLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)

	gameClients := h.gameClients[client.GameID]
	for i, c := range gameClients {
		if c == client {
			h.gameClients[client.GameID] = append(gameClients[:i], gameClients[i+1:]...)
			break
		}
	}
	if len(h.gameClients[client.GameID]) == 0 {
		delete(h.gameClients, client.GameID)
	}
}

// HandleWebSocket handles WebSocket connections for one game's feed
func (h *Hub) HandleWebSocket(c *gin.Context) {
	gameID := c.Param("id")
	if gameID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing game ID"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}

	client := &Client{
		GameID: gameID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		Hub:    h,
	}

	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}

// BroadcastToGame sends an event to all connections watching a game. Clients
// whose send buffer is full are disconnected rather than blocking the
// broadcast.
func (h *Hub) BroadcastToGame(gameID string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal WebSocket event")
		return
	}

	h.mutex.Lock()
	var stale []*Client
	for _, client := range h.gameClients[gameID] {
		select {
		case client.Send <- data:
		default:
			stale = append(stale, client)
		}
	}
	for _, client := range stale {
		h.removeClientLocked(client)
	}
	h.mutex.Unlock()

	for _, client := range stale {
		h.logger.WithField("game_id", client.GameID).Warn("Dropped slow WebSocket client")
	}
}

// GetConnectionCount returns the total number of active connections
func (h *Hub) GetConnectionCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.WithError(err).Error("WebSocket error")
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			c.Hub.logger.WithError(err).Error("Failed to write WebSocket message")
			return
		}
	}

	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
