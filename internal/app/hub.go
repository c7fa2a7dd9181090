package app

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"sketchguess/internal/domain"
)

// sweepInterval is how often the directory checks for leftover rooms
const sweepInterval = 10 * time.Minute

// Directory maps room codes to live rooms. It owns room creation, lookup and
// teardown of empty rooms. The map lock is never held while a room mutates.
type Directory struct {
	sessions map[string]*RoomSession
	mu       sync.RWMutex
	words    domain.WordSource
	codes    CodeGenerator
	logger   *slog.Logger
	done     chan struct{}
	once     sync.Once
}

// NewDirectory creates an empty directory and starts its sweeper
func NewDirectory(words domain.WordSource, codes CodeGenerator, logger *slog.Logger) *Directory {
	d := &Directory{
		sessions: make(map[string]*RoomSession),
		words:    words,
		codes:    codes,
		logger:   logger,
		done:     make(chan struct{}),
	}

	go d.sweepLoop()

	return d
}

// NormalizeCode upper-cases and trims a client-supplied room code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Create registers a new room with connID as drawer and sole player. fn runs
// under the new room's lock before any other caller can reach the room.
func (d *Directory) Create(connID, nickname string, fn func(*domain.Room)) (string, error) {
	d.mu.Lock()

	var code string
	for attempts := 0; attempts < maxCodeAttempts; attempts++ {
		candidate, err := d.codes.NewCode()
		if err != nil {
			d.mu.Unlock()
			return "", fmt.Errorf("generate room code: %w", err)
		}
		if _, exists := d.sessions[candidate]; !exists {
			code = candidate
			break
		}
	}

	if code == "" {
		d.mu.Unlock()
		return "", domain.ErrCodeSpaceExhausted
	}

	room := domain.NewRoom(code, connID, nickname, d.words)
	session := newRoomSession(room)
	session.mu.Lock()
	d.sessions[code] = session
	d.mu.Unlock()

	defer session.mu.Unlock()
	if fn != nil {
		fn(room)
	}

	d.logger.Info("room created", "roomCode", code, "drawer", connID)

	return code, nil
}

// Get returns the session for a room code
func (d *Directory) Get(code string) (*RoomSession, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	session, ok := d.sessions[NormalizeCode(code)]
	return session, ok
}

// Join adds connID to the room as a guesser and runs fn under the room lock
func (d *Directory) Join(code, connID, nickname string, fn func(*domain.Room)) error {
	return d.WithRoom(code, func(room *domain.Room) {
		room.AddPlayer(connID, domain.NicknameOr(nickname, domain.DefaultPlayerNickname))
		if fn != nil {
			fn(room)
		}
	})
}

// WithRoom runs fn with exclusive access to the room
func (d *Directory) WithRoom(code string, fn func(*domain.Room)) error {
	session, ok := d.Get(code)
	if !ok {
		return domain.ErrRoomNotFound
	}

	if !session.do(fn) {
		return domain.ErrRoomNotFound
	}
	return nil
}

// Leave removes connID from one room. fn sees the room after removal.
func (d *Directory) Leave(code, connID string, fn func(room *domain.Room, empty bool)) error {
	session, ok := d.Get(code)
	if !ok {
		return domain.ErrRoomNotFound
	}

	found, empty := session.remove(connID, fn)
	if !found {
		return domain.ErrPlayerNotFound
	}
	if empty {
		d.delete(session)
	}
	return nil
}

// RemoveConnection removes connID from every room it belongs to and returns
// how many rooms it left.
func (d *Directory) RemoveConnection(connID string, fn func(room *domain.Room, empty bool)) int {
	d.mu.RLock()
	sessions := make([]*RoomSession, 0, len(d.sessions))
	for _, s := range d.sessions {
		sessions = append(sessions, s)
	}
	d.mu.RUnlock()

	left := 0
	for _, s := range sessions {
		found, empty := s.remove(connID, fn)
		if !found {
			continue
		}
		left++
		if empty {
			d.delete(s)
		}
	}
	return left
}

// delete unregisters a torn-down session if it is still the one registered
// under its code
func (d *Directory) delete(session *RoomSession) {
	code := session.GetRoomCode()

	d.mu.Lock()
	defer d.mu.Unlock()

	if current, ok := d.sessions[code]; ok && current == session {
		delete(d.sessions, code)
		d.logger.Info("room deleted", "roomCode", code)
	}
}

// GetSessionCount returns the number of live rooms
func (d *Directory) GetSessionCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.sessions)
}

// GetTotalPlayerCount returns the number of players across all rooms
func (d *Directory) GetTotalPlayerCount() int {
	d.mu.RLock()
	sessions := make([]*RoomSession, 0, len(d.sessions))
	for _, s := range d.sessions {
		sessions = append(sessions, s)
	}
	d.mu.RUnlock()

	total := 0
	for _, s := range sessions {
		total += s.GetPlayerCount()
	}
	return total
}

// Close shuts down the directory and all rooms
func (d *Directory) Close() {
	d.once.Do(func() { close(d.done) })

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, session := range d.sessions {
		session.Close()
	}
	d.sessions = make(map[string]*RoomSession)
}

// sweepLoop periodically removes rooms that slipped past immediate teardown
func (d *Directory) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
			d.sweep()
		}
	}
}

// sweep removes closed or empty rooms
func (d *Directory) sweep() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	stale := make([]string, 0)
	for code, session := range d.sessions {
		session.mu.Lock()
		if session.closed || session.room.PlayerCount() == 0 {
			session.closed = true
			stale = append(stale, code)
		}
		session.mu.Unlock()
	}

	for _, code := range stale {
		delete(d.sessions, code)
		d.logger.Info("stale room cleaned up", "roomCode", code)
	}
	return len(stale)
}
