package ws

import (
	"reflect"
)

var typeRegistry = map[string]reflect.Type{}

func init() {
	RegisterType(&EventJoinRoom{})
	RegisterType(&EventJoinCommunityRoom{})
	RegisterType(&EventLeaveRoom{})
	RegisterType(&EventPrivateMessage{})
	RegisterType(&EventCommunityMessage{})
	RegisterType(&EventPing{})

	// Alias kept for clients that emit the generic name.
	RegisterTypeAs("send_message", &EventPrivateMessage{})
}

func RegisterType(event Event) {
	typeRegistry[event.GetType()] = reflect.TypeOf(event).Elem()
}

func RegisterTypeAs(name string, event Event) {
	typeRegistry[name] = reflect.TypeOf(event).Elem()
}

// GetTypeRegistry returns the type registry for testing
func GetTypeRegistry() map[string]reflect.Type {
	return typeRegistry
}
