package app

import (
	"time"

	"sketchguess/internal/domain"
)

// Connection is a transport handle the router can address
type Connection interface {
	ID() string
	Send(msg *OutboundMessage) error
	Close() error
}

// OutboundMessage is a tagged server → client message
type OutboundMessage struct {
	Type      domain.EventType `json:"type"`
	Payload   interface{}      `json:"payload"`
	Timestamp string           `json:"timestamp"`
}

// NewOutboundMessage creates a message stamped with the current time
func NewOutboundMessage(msgType domain.EventType, payload interface{}) *OutboundMessage {
	return &OutboundMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// User-visible error messages
const (
	MsgRoomNotFound   = "Room not found"
	MsgInvalidMessage = "Invalid message"
	MsgUnknownType    = "Unknown message type"
	MsgRateLimited    = "Too many requests"
	MsgCreateFailed   = "Failed to create room"
)
