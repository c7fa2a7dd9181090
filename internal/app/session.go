package app

import (
	"sync"
	"time"

	"sketchguess/internal/domain"
)

// RoomSession serializes all access to one room. Every read-modify-write of
// the room runs under mu, so two events for the same room never interleave.
type RoomSession struct {
	room   *domain.Room
	mu     sync.Mutex
	closed bool
}

func newRoomSession(room *domain.Room) *RoomSession {
	return &RoomSession{room: room}
}

// GetRoomCode returns the room code
func (s *RoomSession) GetRoomCode() string {
	return s.room.Code
}

// RoomInfo is a point-in-time summary of a room. It never carries the
// secret word.
type RoomInfo struct {
	RoomCode       string
	CreatedAt      time.Time
	Round          int
	RoundStartedAt time.Time
	Players        []domain.Player
	Strokes        int
	Points         int
}

// Info returns a snapshot of the room, or false if it has been torn down
func (s *RoomSession) Info() (RoomInfo, bool) {
	var info RoomInfo
	ok := s.do(func(room *domain.Room) {
		info = RoomInfo{
			RoomCode:       room.Code,
			CreatedAt:      room.CreatedAt,
			Round:          room.RoundNumber(),
			RoundStartedAt: room.RoundStartedAt(),
			Players:        room.Players(),
			Strokes:        room.StrokeCount(),
			Points:         room.PointCount(),
		}
	})
	return info, ok
}

// GetPlayerCount returns the number of players
func (s *RoomSession) GetPlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.PlayerCount()
}

// IsClosed reports whether the room has been torn down
func (s *RoomSession) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// do runs fn against the room while holding the session lock. It returns
// false without calling fn if the room has been torn down.
func (s *RoomSession) do(fn func(*domain.Room)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	fn(s.room)
	return true
}

// remove drops playerID from the room. When the room becomes empty it is
// marked closed under the same lock, so no join can slip in afterwards.
func (s *RoomSession) remove(playerID string, fn func(*domain.Room, bool)) (found, empty bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.room.HasPlayer(playerID) {
		return false, false
	}

	empty, _ = s.room.RemovePlayer(playerID)
	if empty {
		s.closed = true
	}
	if fn != nil {
		fn(s.room, empty)
	}
	return true, empty
}

// Close marks the session closed
func (s *RoomSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
