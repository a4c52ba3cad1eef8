package ws

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/roamly/roamly-backend/internal/realtime"
	"github.com/roamly/roamly-backend/internal/service"
)

// EventContext provides all dependencies needed for event processing.
type EventContext struct {
	UserID           uint
	Endpoint         realtime.Endpoint
	Hub              *realtime.Hub
	ChatService      *service.ChatService
	CommunityService *service.CommunityService
	MaxContentLength int
}

// Event is the interface for all client→server WebSocket events.
type Event interface {
	GetType() string
	Process(ctx *EventContext) error
}

// SerializedEvent is the wire format wrapper.
type SerializedEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ErrorPayload is pushed as a message_error event when processing fails.
type ErrorPayload struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func Deserialize(jsonBytes []byte) (Event, error) {
	var wrapper SerializedEvent
	if err := json.Unmarshal(jsonBytes, &wrapper); err != nil {
		return nil, err
	}

	eventType, ok := typeRegistry[wrapper.Type]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", wrapper.Type)
	}

	event := reflect.New(eventType).Interface().(Event)
	if len(wrapper.Payload) > 0 {
		if err := json.Unmarshal(wrapper.Payload, event); err != nil {
			return nil, err
		}
	}
	return event, nil
}

// SendError pushes a message_error event to the endpoint. Join and send
// failures are reported this way rather than closing the connection.
func SendError(ep realtime.Endpoint, code, message string) error {
	return ep.Send(realtime.EventMessageError, ErrorPayload{Error: message, Code: code})
}
