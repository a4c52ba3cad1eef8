package realtime

import (
	"log"
	"sync"
	"time"

	"github.com/roamly/roamly-backend/internal/models"
)

// Server→client event names.
const (
	EventReceivePrivate   = "receive_private_message"
	EventReceiveCommunity = "receive_community_message"
	EventMessageSent      = "message_sent"
	EventMessageError     = "message_error"
	EventJoinedRoom       = "joined_room"
	EventLeftRoom         = "left_room"
)

// MessagePayload is the event body pushed to room members.
type MessagePayload struct {
	ID          uint      `json:"id"`
	ClientID    string    `json:"client_id,omitempty"`
	SenderID    uint      `json:"sender_id"`
	ReceiverID  *uint     `json:"receiver_id,omitempty"`
	CommunityID *uint     `json:"community_id,omitempty"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewMessagePayload(m *models.Message) MessagePayload {
	return MessagePayload{
		ID:          m.ID,
		ClientID:    m.ClientID,
		SenderID:    m.SenderID,
		ReceiverID:  m.ReceiverID,
		CommunityID: m.CommunityID,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
	}
}

// room owns the endpoint set for one room key. Each room carries its own
// lock so joins and deliveries in unrelated rooms never serialize.
type room struct {
	mu        sync.RWMutex
	endpoints map[Endpoint]struct{}
}

// Hub is the room directory and delivery fan-out. Registrations are
// process-local and live only as long as the connection; offline recipients
// catch up through history.
type Hub struct {
	rooms sync.Map // string -> *room
}

func NewHub() *Hub {
	return &Hub{}
}

func (h *Hub) getRoom(roomKey string) *room {
	if v, ok := h.rooms.Load(roomKey); ok {
		return v.(*room)
	}
	v, _ := h.rooms.LoadOrStore(roomKey, &room{endpoints: make(map[Endpoint]struct{})})
	return v.(*room)
}

// Join registers an endpoint under a room key. Authorization (community
// membership) is the caller's concern; the hub only tracks connections.
func (h *Hub) Join(ep Endpoint, roomKey string) {
	r := h.getRoom(roomKey)
	r.mu.Lock()
	r.endpoints[ep] = struct{}{}
	r.mu.Unlock()
}

// Leave removes an endpoint from a room. Leaving a room never joined is a no-op.
func (h *Hub) Leave(ep Endpoint, roomKey string) {
	v, ok := h.rooms.Load(roomKey)
	if !ok {
		return
	}
	r := v.(*room)
	r.mu.Lock()
	delete(r.endpoints, ep)
	r.mu.Unlock()
}

// LeaveAll removes an endpoint from every room, immediately and without a
// grace period. Called on disconnect.
func (h *Hub) LeaveAll(ep Endpoint) {
	h.rooms.Range(func(_, v interface{}) bool {
		r := v.(*room)
		r.mu.Lock()
		delete(r.endpoints, ep)
		r.mu.Unlock()
		return true
	})
}

// Endpoints returns a snapshot of the endpoints currently in a room.
func (h *Hub) Endpoints(roomKey string) []Endpoint {
	v, ok := h.rooms.Load(roomKey)
	if !ok {
		return nil
	}
	r := v.(*room)
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Endpoint, 0, len(r.endpoints))
	for ep := range r.endpoints {
		out = append(out, ep)
	}
	return out
}

// IsOnline reports whether any endpoint is registered in the user's room.
func (h *Hub) IsOnline(userID uint) bool {
	return len(h.Endpoints(UserRoom(userID))) > 0
}

// Deliver pushes a persisted message to every endpoint in its target room,
// once per endpoint. Individual push failures are logged and drop the dead
// endpoint; they never abort delivery to the rest and never fail the send.
// If origin is non-nil it additionally receives a message_sent confirmation,
// distinct from the broadcast, so the sender can reconcile optimistic state.
//
// Callers must invoke Deliver exactly once per persisted message.
func (h *Hub) Deliver(message *models.Message, origin Endpoint) {
	payload := NewMessagePayload(message)

	var roomKey, event string
	if message.IsCommunity() {
		roomKey = CommunityRoom(*message.CommunityID)
		event = EventReceiveCommunity
	} else {
		roomKey = UserRoom(*message.ReceiverID)
		event = EventReceivePrivate
	}

	for _, ep := range h.Endpoints(roomKey) {
		if err := ep.Send(event, payload); err != nil {
			log.Printf("Delivery to user %d in %s failed: %v", ep.UserID(), roomKey, err)
			h.LeaveAll(ep)
		}
	}

	if origin != nil {
		if err := origin.Send(EventMessageSent, payload); err != nil {
			log.Printf("Send confirmation to user %d failed: %v", origin.UserID(), err)
		}
	}
}
