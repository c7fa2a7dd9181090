package ws

import (
	"encoding/json"

	"sketchguess/internal/domain"
)

// Transport-level keepalive tags. They never reach the router.
const (
	MsgPing domain.EventType = "ping"
	MsgPong domain.EventType = "pong"
)

// ClientMessage represents a message from client to server. The payload is
// decoded by the router once the tag is known.
type ClientMessage struct {
	Type    domain.EventType `json:"type"`
	Payload json.RawMessage  `json:"payload,omitempty"`
}
