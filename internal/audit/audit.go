// Package audit publishes room lifecycle and round outcomes to an external
// stream. It is a fire-and-forget notification feed; nothing is read back.
package audit

import (
	"context"
	"time"
)

// Kind identifies what happened
type Kind string

const (
	// KindRoomCreated is published once a new room has its drawer
	KindRoomCreated Kind = "room_created"
	// KindRoundCorrect is published when a guess ends a round
	KindRoundCorrect Kind = "round_correct"
	// KindRoomClosed is published when the last member leaves
	KindRoomClosed Kind = "room_closed"
)

// RoundRecord is one published fact about a room
type RoundRecord struct {
	Kind     Kind      `json:"kind"`
	RoomCode string    `json:"roomCode"`
	Round    int       `json:"round,omitempty"`
	Nickname string    `json:"nickname,omitempty"`
	Word     string    `json:"word,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher delivers records to a sink
type Publisher interface {
	Publish(ctx context.Context, rec RoundRecord) error
	Close() error
}

// Nop discards every record
type Nop struct{}

// Publish drops rec
func (Nop) Publish(context.Context, RoundRecord) error { return nil }

// Close does nothing
func (Nop) Close() error { return nil }
