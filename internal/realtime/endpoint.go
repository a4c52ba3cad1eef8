package realtime

import (
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Endpoint is one live connection able to receive pushed events. A principal
// may hold several endpoints at once (multiple devices); each one receives
// delivery independently.
type Endpoint interface {
	UserID() uint
	Send(event string, payload interface{}) error
}

// Event is the wire envelope for server-pushed events.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// WSEndpoint wraps a WebSocket connection. Writes are serialized with a
// mutex because fan-out and the connection's own read loop reply concurrently.
type WSEndpoint struct {
	conn   *websocket.Conn
	userID uint
	mu     sync.Mutex
}

func NewWSEndpoint(conn *websocket.Conn, userID uint) *WSEndpoint {
	return &WSEndpoint{conn: conn, userID: userID}
}

func (e *WSEndpoint) UserID() uint {
	return e.userID
}

func (e *WSEndpoint) Send(event string, payload interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conn.WriteJSON(Event{Type: event, Payload: payload})
}
