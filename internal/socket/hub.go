// server/internal/socket/hub.go
package socket

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event is a dashboard push message emitted after a successful mutation so
// connected clients can refresh without polling.
type Event struct {
	Type    string      `json:"type"` // e.g., "field.deleted", "activity.completed"
	Payload interface{} `json:"payload,omitempty"`
}

// Hub tracks one websocket connection per user id. Access to the map is
// mutex-guarded; this is the only cross-request state in the process.
type Hub struct {
	clients map[string]*websocket.Conn
	mu      sync.RWMutex
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
		logger:  logger,
	}
}

// Register adds a client connection, replacing any previous one for the user.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[userID]; ok {
		old.Close()
	}
	h.clients[userID] = conn
	h.logger.Info("websocket client registered", zap.String("user", userID))
}

// Unregister removes a client connection.
func (h *Hub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; ok {
		delete(h.clients, userID)
		h.logger.Info("websocket client unregistered", zap.String("user", userID))
	}
}

// Notify sends an event to one user's connection. An offline user is not an
// error; push delivery is best effort.
func (h *Hub) Notify(userID string, event Event) {
	h.mu.RLock()
	conn, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("failed to marshal websocket event", zap.Error(err))
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
		h.logger.Warn("failed to push websocket event",
			zap.String("user", userID), zap.Error(err))
	}
}
