package handlers

import (
	"log"

	"github.com/gofiber/websocket/v2"
	"github.com/roamly/roamly-backend/internal/handlers/ws"
	"github.com/roamly/roamly-backend/internal/realtime"
	"github.com/roamly/roamly-backend/internal/service"
)

// WebSocketHandler is the persistent-connection adapter. Authentication
// happens once at upgrade (the auth middleware rejects the handshake
// otherwise); the open connection then accepts join/leave/send events that
// funnel into the same chat service as the HTTP adapter.
type WebSocketHandler struct {
	hub              *realtime.Hub
	chatService      *service.ChatService
	communityService *service.CommunityService
	maxContentLength int
}

func NewWebSocketHandler(hub *realtime.Hub, chatService *service.ChatService, communityService *service.CommunityService, maxContentLength int) *WebSocketHandler {
	return &WebSocketHandler{
		hub:              hub,
		chatService:      chatService,
		communityService: communityService,
		maxContentLength: maxContentLength,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID := c.Locals("userID").(uint)

	endpoint := realtime.NewWSEndpoint(c, userID)

	// Every connection lands in the principal's personal room so private
	// messages reach all of their devices.
	h.hub.Join(endpoint, realtime.UserRoom(userID))
	defer h.hub.LeaveAll(endpoint)

	log.Printf("User %d connected via WebSocket", userID)

	ctx := &ws.EventContext{
		UserID:           userID,
		Endpoint:         endpoint,
		Hub:              h.hub,
		ChatService:      h.chatService,
		CommunityService: h.communityService,
		MaxContentLength: h.maxContentLength,
	}

	for {
		_, messageBytes, err := c.ReadMessage()
		if err != nil {
			break
		}

		event, err := ws.Deserialize(messageBytes)
		if err != nil {
			log.Printf("Invalid event from user %d: %v", userID, err)
			_ = ws.SendError(endpoint, "invalid_event", "Invalid event format")
			continue
		}

		if err := event.Process(ctx); err != nil {
			log.Printf("Error processing %s from user %d: %v", event.GetType(), userID, err)
		}
	}

	log.Printf("User %d disconnected from WebSocket", userID)
}
