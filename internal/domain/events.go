package domain

import "encoding/json"

// EventType is the tag carried by every message on the wire
type EventType string

// Client → server events
const (
	EventRoomCreate  EventType = "room:create"
	EventRoomJoin    EventType = "room:join"
	EventRoomLeave   EventType = "room:leave"
	EventStrokePoint EventType = "stroke:point"
	EventGuessNew    EventType = "guess:new"
	EventGameReset   EventType = "game:reset"
)

// Server → client events
const (
	EventRoomCreated    EventType = "room:created"
	EventRoomPlayers    EventType = "room:players"
	EventRoundStart     EventType = "round:start"
	EventRoomError      EventType = "room:error"
	EventGuessBroadcast EventType = "guess:broadcast"
	EventRoundCorrect   EventType = "round:correct"
)

// String returns the wire tag
func (e EventType) String() string {
	return string(e)
}

// Inbound payloads

// CreateRoomPayload is the payload for room:create
type CreateRoomPayload struct {
	Nickname string `json:"nickname"`
}

// JoinRoomPayload is the payload for room:join
type JoinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	Nickname string `json:"nickname"`
}

// LeaveRoomPayload is the payload for room:leave
type LeaveRoomPayload struct {
	RoomCode string `json:"roomCode"`
}

// StrokePointPayload is the payload for an inbound stroke:point. Only
// roomCode and id are decoded strictly. The embedded StrokePoint is a
// best-effort typed view for the accumulator; Relay holds every other field
// exactly as the client sent it.
type StrokePointPayload struct {
	RoomCode string `json:"roomCode"`
	StrokePoint
	Relay map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler
func (p *StrokePointPayload) UnmarshalJSON(data []byte) error {
	var head struct {
		RoomCode string `json:"roomCode"`
		ID       string `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	delete(fields, "roomCode")
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}

	p.RoomCode = head.RoomCode
	p.Relay = fields
	p.StrokePoint = StrokePoint{ID: head.ID}
	decodeLoose(fields["x"], &p.X)
	decodeLoose(fields["y"], &p.Y)
	decodeLoose(fields["t"], &p.T)
	decodeLoose(fields["color"], &p.Color)
	decodeLoose(fields["width"], &p.Width)
	return nil
}

// decodeLoose leaves v untouched when raw is absent or of another type
func decodeLoose(raw json.RawMessage, v interface{}) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, v)
}

// GuessPayload is the payload for guess:new
type GuessPayload struct {
	RoomCode string `json:"roomCode"`
	Text     string `json:"text"`
	Nickname string `json:"nickname"`
}

// ResetPayload is the payload for game:reset
type ResetPayload struct {
	RoomCode string `json:"roomCode"`
}

// Outbound payloads

// RoomCreatedPayload confirms room creation to its creator
type RoomCreatedPayload struct {
	RoomCode string `json:"roomCode"`
}

// PlayersPayload is the full player list; consumers replace, never diff
type PlayersPayload struct {
	Players []string `json:"players"`
}

// RoundStartPayload carries the secret word and is addressed to the drawer only
type RoundStartPayload struct {
	RoomCode string `json:"roomCode"`
	Word     string `json:"word"`
}

// ErrorPayload is sent to the requesting connection only
type ErrorPayload struct {
	Message string `json:"message"`
}

// GuessBroadcastPayload echoes a guess to the whole room
type GuessBroadcastPayload struct {
	Nickname string `json:"nickname"`
	Text     string `json:"text"`
}

// RoundCorrectPayload announces the winner and the word just guessed
type RoundCorrectPayload struct {
	Nickname string `json:"nickname"`
	Word     string `json:"word"`
}

// GameResetPayload is empty on the wire
type GameResetPayload struct{}
