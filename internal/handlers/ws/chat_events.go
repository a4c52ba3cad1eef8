package ws

import (
	"errors"

	"github.com/roamly/roamly-backend/internal/realtime"
	"github.com/roamly/roamly-backend/internal/service"
	"github.com/roamly/roamly-backend/internal/validation"
)

// EventJoinRoom joins the caller's personal room. Only the caller's own room
// may be joined; anything else is reported as a message_error event.
type EventJoinRoom struct {
	Room string `json:"room"`
}

func (e *EventJoinRoom) GetType() string { return "join_room" }

func (e *EventJoinRoom) Process(ctx *EventContext) error {
	userID, ok := realtime.ParseUserRoom(e.Room)
	if !ok || userID != ctx.UserID {
		return SendError(ctx.Endpoint, "room_not_allowed", "Cannot join this room")
	}

	ctx.Hub.Join(ctx.Endpoint, e.Room)
	return ctx.Endpoint.Send(realtime.EventJoinedRoom, map[string]string{"room": e.Room})
}

// EventJoinCommunityRoom joins a community room after a live membership
// check. An unauthorized join emits message_error and leaves the connection
// open; the join is best-effort, not transactional.
type EventJoinCommunityRoom struct {
	CommunityID uint `json:"community_id"`
}

func (e *EventJoinCommunityRoom) GetType() string { return "join_community_room" }

func (e *EventJoinCommunityRoom) Process(ctx *EventContext) error {
	isMember, err := ctx.CommunityService.IsMember(e.CommunityID, ctx.UserID)
	if err != nil {
		return SendError(ctx.Endpoint, "membership_check_failed", "Could not verify membership")
	}
	if !isMember {
		return SendError(ctx.Endpoint, "not_a_member", "Not a member of this community")
	}

	room := realtime.CommunityRoom(e.CommunityID)
	ctx.Hub.Join(ctx.Endpoint, room)
	return ctx.Endpoint.Send(realtime.EventJoinedRoom, map[string]string{"room": room})
}

// EventLeaveRoom leaves a room. Leaving a room never joined succeeds as a no-op.
type EventLeaveRoom struct {
	Room string `json:"room"`
}

func (e *EventLeaveRoom) GetType() string { return "leave_room" }

func (e *EventLeaveRoom) Process(ctx *EventContext) error {
	ctx.Hub.Leave(ctx.Endpoint, e.Room)
	return ctx.Endpoint.Send(realtime.EventLeftRoom, map[string]string{"room": e.Room})
}

// EventPrivateMessage sends a private message over the socket. It funnels
// into the same service send path as the HTTP adapter; the service persists
// once, fans out once, and acknowledges this endpoint with message_sent.
type EventPrivateMessage struct {
	ReceiverID uint   `json:"receiver_id"`
	Content    string `json:"content"`
	ClientID   string `json:"client_id"`
}

func (e *EventPrivateMessage) GetType() string { return "private_message" }

func (e *EventPrivateMessage) Process(ctx *EventContext) error {
	input := service.SendPrivateInput{
		ReceiverID: e.ReceiverID,
		Content:    validation.TrimAndLimit(e.Content, ctx.MaxContentLength),
		ClientID:   e.ClientID,
	}

	if _, err := ctx.ChatService.SendPrivate(ctx.UserID, input, ctx.Endpoint); err != nil {
		return SendError(ctx.Endpoint, sendErrorCode(err), "Failed to send message")
	}
	return nil
}

// EventCommunityMessage sends a community message over the socket.
type EventCommunityMessage struct {
	CommunityID uint   `json:"community_id"`
	Content     string `json:"content"`
	ClientID    string `json:"client_id"`
}

func (e *EventCommunityMessage) GetType() string { return "community_message" }

func (e *EventCommunityMessage) Process(ctx *EventContext) error {
	input := service.SendCommunityInput{
		CommunityID: e.CommunityID,
		Content:     validation.TrimAndLimit(e.Content, ctx.MaxContentLength),
		ClientID:    e.ClientID,
	}

	if _, err := ctx.ChatService.SendCommunity(ctx.UserID, input, ctx.Endpoint); err != nil {
		return SendError(ctx.Endpoint, sendErrorCode(err), "Failed to send message")
	}
	return nil
}

// EventPing is a keepalive ping from the client.
type EventPing struct{}

func (e *EventPing) GetType() string { return "ping" }

func (e *EventPing) Process(ctx *EventContext) error {
	return ctx.Endpoint.Send("pong", nil)
}

func sendErrorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrValidation):
		return "invalid_message"
	case errors.Is(err, service.ErrNotFound):
		return "not_found"
	case errors.Is(err, service.ErrForbidden):
		return "not_a_member"
	default:
		return "send_failed"
	}
}
