package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"sketchguess/internal/audit"
	"sketchguess/internal/domain"
)

// Router turns inbound events into room operations and addresses the
// resulting outbound events. All outbound events for one room are emitted
// while that room's lock is held, so every member sees them in mutation order.
type Router struct {
	dir       *Directory
	conns     map[string]Connection
	mu        sync.RWMutex
	publisher audit.Publisher
	logger    *slog.Logger
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithLogger sets the router's logger
func WithLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) { r.logger = logger }
}

// WithPublisher sets the sink for room and round records
func WithPublisher(p audit.Publisher) RouterOption {
	return func(r *Router) { r.publisher = p }
}

// NewRouter creates a router over dir
func NewRouter(dir *Directory, opts ...RouterOption) *Router {
	r := &Router{
		dir:       dir,
		conns:     make(map[string]Connection),
		publisher: audit.Nop{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register makes a connection addressable
func (r *Router) Register(conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn.ID()] = conn
}

// Unregister removes a connection from the address table
func (r *Router) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, connID)
}

// ConnectionCount returns the number of registered connections
func (r *Router) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Dispatch decodes a raw payload for msgType and handles it. Decoding
// failures are reported to the sender.
func (r *Router) Dispatch(connID string, msgType domain.EventType, raw json.RawMessage) {
	switch msgType {
	case domain.EventRoomCreate:
		var p domain.CreateRoomPayload
		if r.decode(connID, raw, &p) {
			r.CreateRoom(connID, p)
		}
	case domain.EventRoomJoin:
		var p domain.JoinRoomPayload
		if r.decode(connID, raw, &p) {
			r.JoinRoom(connID, p)
		}
	case domain.EventRoomLeave:
		var p domain.LeaveRoomPayload
		if r.decode(connID, raw, &p) {
			r.LeaveRoom(connID, p)
		}
	case domain.EventStrokePoint:
		var p domain.StrokePointPayload
		if r.decode(connID, raw, &p) {
			r.StrokePoint(connID, p)
		}
	case domain.EventGuessNew:
		var p domain.GuessPayload
		if r.decode(connID, raw, &p) {
			r.Guess(connID, p)
		}
	case domain.EventGameReset:
		var p domain.ResetPayload
		if r.decode(connID, raw, &p) {
			r.Reset(connID, p)
		}
	default:
		r.SendError(connID, MsgUnknownType)
	}
}

func (r *Router) decode(connID string, raw json.RawMessage, v interface{}) bool {
	if len(raw) == 0 {
		return true
	}
	if err := json.Unmarshal(raw, v); err != nil {
		r.logger.Debug("invalid payload", "connID", connID, "error", err)
		r.SendError(connID, MsgInvalidMessage)
		return false
	}
	return true
}

// CreateRoom handles room:create
func (r *Router) CreateRoom(connID string, p domain.CreateRoomPayload) {
	var round int
	code, err := r.dir.Create(connID, p.Nickname, func(room *domain.Room) {
		round = room.RoundNumber()
		r.toConn(connID, domain.EventRoomCreated, &domain.RoomCreatedPayload{RoomCode: room.Code})
		r.sendRoundStart(room)
		r.sendPlayers(room)
	})
	if err != nil {
		r.logger.Error("failed to create room", "connID", connID, "error", err)
		r.SendError(connID, MsgCreateFailed)
		return
	}

	r.publish(audit.RoundRecord{Kind: audit.KindRoomCreated, RoomCode: code, Round: round})
}

// JoinRoom handles room:join
func (r *Router) JoinRoom(connID string, p domain.JoinRoomPayload) {
	var role domain.Role
	err := r.dir.Join(p.RoomCode, connID, p.Nickname, func(room *domain.Room) {
		role = room.RoleOf(connID)
		r.sendPlayers(room)
	})
	if errors.Is(err, domain.ErrRoomNotFound) {
		r.SendError(connID, MsgRoomNotFound)
		return
	}

	r.logger.Debug("player joined", "roomCode", NormalizeCode(p.RoomCode), "connID", connID, "role", role.String())
}

// LeaveRoom handles room:leave
func (r *Router) LeaveRoom(connID string, p domain.LeaveRoomPayload) {
	var closed []audit.RoundRecord
	err := r.dir.Leave(p.RoomCode, connID, r.afterRemoval(&closed))
	if err != nil {
		r.logger.Debug("leave ignored", "roomCode", p.RoomCode, "connID", connID, "error", err)
		return
	}
	r.publish(closed...)
}

// StrokePoint handles stroke:point. The fields are relayed to every other
// member as they were received; the sender already drew the point locally.
func (r *Router) StrokePoint(connID string, p domain.StrokePointPayload) {
	err := r.dir.WithRoom(p.RoomCode, func(room *domain.Room) {
		room.RecordPoint(p.StrokePoint)
		r.toRoomExcept(room, connID, domain.EventStrokePoint, p.Relay)
	})
	if err != nil {
		r.logger.Debug("stroke dropped", "roomCode", p.RoomCode, "connID", connID, "error", err)
	}
}

// Guess handles guess:new
func (r *Router) Guess(connID string, p domain.GuessPayload) {
	var (
		outcome domain.GuessOutcome
		round   int
	)
	err := r.dir.WithRoom(p.RoomCode, func(room *domain.Room) {
		nickname := p.Nickname
		if nickname == "" {
			if player, err := room.GetPlayer(connID); err == nil {
				nickname = player.Nickname
			} else {
				nickname = domain.DefaultPlayerNickname
			}
		}

		round = room.RoundNumber()
		outcome = room.SubmitGuess(nickname, p.Text)
		r.toRoom(room, domain.EventGuessBroadcast, &domain.GuessBroadcastPayload{
			Nickname: outcome.Nickname,
			Text:     outcome.Text,
		})
		if !outcome.Correct {
			return
		}

		r.toRoom(room, domain.EventRoundCorrect, &domain.RoundCorrectPayload{
			Nickname: outcome.Nickname,
			Word:     outcome.Word,
		})
		r.sendRoundStart(room)
	})
	if err != nil {
		r.logger.Debug("guess dropped", "roomCode", p.RoomCode, "connID", connID, "error", err)
		return
	}

	if outcome.Correct {
		r.logger.Info("round won", "roomCode", NormalizeCode(p.RoomCode), "round", round, "nickname", outcome.Nickname)
		r.publish(audit.RoundRecord{
			Kind:     audit.KindRoundCorrect,
			RoomCode: NormalizeCode(p.RoomCode),
			Round:    round,
			Nickname: outcome.Nickname,
			Word:     outcome.Word,
		})
	}
}

// Reset handles game:reset. Only the drawing is cleared server-side; the
// secret word is kept.
func (r *Router) Reset(connID string, p domain.ResetPayload) {
	err := r.dir.WithRoom(p.RoomCode, func(room *domain.Room) {
		room.Reset()
		r.toRoom(room, domain.EventGameReset, &domain.GameResetPayload{})
	})
	if err != nil {
		r.logger.Debug("reset dropped", "roomCode", p.RoomCode, "connID", connID, "error", err)
	}
}

// Disconnect handles a closed connection
func (r *Router) Disconnect(connID string) {
	r.Unregister(connID)

	var closed []audit.RoundRecord
	left := r.dir.RemoveConnection(connID, r.afterRemoval(&closed))
	r.publish(closed...)

	r.logger.Debug("connection closed", "connID", connID, "roomsLeft", left)
}

// afterRemoval returns the callback run under the room lock once a member is
// gone. Rooms that became empty are collected into closed for publishing
// after the lock is released.
func (r *Router) afterRemoval(closed *[]audit.RoundRecord) func(*domain.Room, bool) {
	return func(room *domain.Room, empty bool) {
		if empty {
			*closed = append(*closed, audit.RoundRecord{
				Kind:     audit.KindRoomClosed,
				RoomCode: room.Code,
				Round:    room.RoundNumber(),
			})
			return
		}
		r.sendPlayers(room)
	}
}

// SendError sends a room:error to one connection
func (r *Router) SendError(connID, message string) {
	r.toConn(connID, domain.EventRoomError, &domain.ErrorPayload{Message: message})
}

func (r *Router) sendPlayers(room *domain.Room) {
	r.toRoom(room, domain.EventRoomPlayers, &domain.PlayersPayload{Players: room.Nicknames()})
}

// sendRoundStart tells the drawer, and only the drawer, the secret word
func (r *Router) sendRoundStart(room *domain.Room) {
	payload := &domain.RoundStartPayload{
		RoomCode: room.Code,
		Word:     room.SecretWord(),
	}
	for _, id := range room.PlayerIDs() {
		if room.RoleOf(id).IsDrawer() {
			r.toConn(id, domain.EventRoundStart, payload)
		}
	}
}

func (r *Router) toConn(connID string, msgType domain.EventType, payload interface{}) {
	r.mu.RLock()
	conn, ok := r.conns[connID]
	r.mu.RUnlock()
	if !ok {
		return
	}

	if err := conn.Send(NewOutboundMessage(msgType, payload)); err != nil {
		r.logger.Debug("failed to send to connection", "connID", connID, "type", msgType, "error", err)
	}
}

func (r *Router) toRoom(room *domain.Room, msgType domain.EventType, payload interface{}) {
	r.toRoomExcept(room, "", msgType, payload)
}

func (r *Router) toRoomExcept(room *domain.Room, exceptID string, msgType domain.EventType, payload interface{}) {
	msg := NewOutboundMessage(msgType, payload)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range room.PlayerIDs() {
		if id == exceptID {
			continue
		}
		conn, ok := r.conns[id]
		if !ok {
			continue
		}
		if err := conn.Send(msg); err != nil {
			r.logger.Debug("failed to send to connection", "connID", id, "type", msgType, "error", err)
		}
	}
}

// publish hands records to the audit sink. Never call it under a room lock.
func (r *Router) publish(recs ...audit.RoundRecord) {
	for _, rec := range recs {
		if rec.At.IsZero() {
			rec.At = time.Now().UTC()
		}
		if err := r.publisher.Publish(context.Background(), rec); err != nil {
			r.logger.Warn("audit publish failed", "kind", rec.Kind, "roomCode", rec.RoomCode, "error", err)
		}
	}
}
