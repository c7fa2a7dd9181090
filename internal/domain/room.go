package domain

import (
	"strings"
	"time"
)

// WordSource supplies secret words
type WordSource interface {
	RandomWord() string
}

// Room represents one drawing session. It is not safe for concurrent use;
// callers serialize access per room.
type Room struct {
	Code      string    `json:"code"`
	DrawerID  string    `json:"drawerId"`
	CreatedAt time.Time `json:"createdAt"`

	players map[string]*Player
	order   []string
	round   *Round
	words   WordSource
}

// NewRoom creates a room with drawerID as drawer and sole player, and starts
// the first round with a word from words.
func NewRoom(code, drawerID, nickname string, words WordSource) *Room {
	r := &Room{
		Code:      code,
		DrawerID:  drawerID,
		CreatedAt: time.Now(),
		players:   make(map[string]*Player),
		order:     make([]string, 0, 4),
		words:     words,
	}
	r.AddPlayer(drawerID, NicknameOr(nickname, DefaultDrawerNickname))
	r.round = NewRound(1, words.RandomWord())
	return r
}

// AddPlayer adds a player to the room. Adding an existing player only
// updates the nickname.
func (r *Room) AddPlayer(playerID, nickname string) *Player {
	if player, ok := r.players[playerID]; ok {
		player.Nickname = nickname
		return player
	}

	player := NewPlayer(playerID, nickname)
	r.players[playerID] = player
	r.order = append(r.order, playerID)
	return player
}

// RemovePlayer removes a player and reports whether the room is now empty
func (r *Room) RemovePlayer(playerID string) (bool, error) {
	if _, ok := r.players[playerID]; !ok {
		return len(r.players) == 0, ErrPlayerNotFound
	}

	delete(r.players, playerID)
	for i, id := range r.order {
		if id == playerID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return len(r.players) == 0, nil
}

// HasPlayer checks whether the connection is a member of the room
func (r *Room) HasPlayer(playerID string) bool {
	_, ok := r.players[playerID]
	return ok
}

// GetPlayer returns a player by ID
func (r *Room) GetPlayer(playerID string) (*Player, error) {
	player, ok := r.players[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

// PlayerIDs returns the member connection IDs in join order
func (r *Room) PlayerIDs() []string {
	return append([]string(nil), r.order...)
}

// Nicknames returns the member nicknames in join order
func (r *Room) Nicknames() []string {
	names := make([]string, 0, len(r.order))
	for _, id := range r.order {
		names = append(names, r.players[id].Nickname)
	}
	return names
}

// Players returns copies of the member records in join order
func (r *Room) Players() []Player {
	players := make([]Player, 0, len(r.order))
	for _, id := range r.order {
		players = append(players, *r.players[id])
	}
	return players
}

// PlayerCount returns the number of players
func (r *Room) PlayerCount() int {
	return len(r.players)
}

// RoleOf returns the role a member holds
func (r *Room) RoleOf(playerID string) Role {
	if playerID == r.DrawerID {
		return RoleDrawer
	}
	return RoleGuesser
}

// SecretWord returns the current word. Only the drawer may be told.
func (r *Room) SecretWord() string {
	return r.round.SecretWord
}

// RoundNumber returns the 1-based number of the current round
func (r *Room) RoundNumber() int {
	return r.round.Number
}

// RoundStartedAt returns when the current round began
func (r *Room) RoundStartedAt() time.Time {
	return r.round.StartedAt
}

// Strokes returns the current round's drawing surface
func (r *Room) Strokes() []Stroke {
	return r.round.Strokes.All()
}

// StrokeCount returns the number of strokes drawn this round
func (r *Room) StrokeCount() int {
	return r.round.Strokes.Len()
}

// RecordPoint accumulates a draw event into the current round
func (r *Room) RecordPoint(sp StrokePoint) {
	r.round.Strokes.Add(sp.ID, sp.Color, sp.Width, sp.Point())
}

// PointCount returns the number of points drawn this round
func (r *Room) PointCount() int {
	return r.round.Strokes.PointCount()
}

// SubmitGuess checks text against the secret word. A correct guess ends the
// round: the drawing is discarded and a new word is drawn.
func (r *Room) SubmitGuess(nickname, text string) GuessOutcome {
	guess := strings.TrimSpace(text)
	outcome := GuessOutcome{
		Nickname: nickname,
		Text:     guess,
	}

	if strings.ToLower(guess) != strings.ToLower(r.round.SecretWord) {
		return outcome
	}

	outcome.Correct = true
	outcome.Word = r.round.SecretWord
	r.round = r.round.Next(r.words.RandomWord())
	outcome.NextWord = r.round.SecretWord

	return outcome
}

// Reset clears the drawing surface. The secret word is kept.
func (r *Room) Reset() {
	r.round.Strokes.Clear()
}
