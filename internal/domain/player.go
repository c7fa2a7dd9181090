package domain

import "time"

// Default nicknames used when a client omits one
const (
	DefaultDrawerNickname = "Drawer"
	DefaultPlayerNickname = "Player"
)

// Player represents a connection's membership in a room
type Player struct {
	ID       string    `json:"id"`
	Nickname string    `json:"nickname"`
	JoinedAt time.Time `json:"joinedAt"`
}

// NewPlayer creates a new player with the given connection ID and nickname
func NewPlayer(id, nickname string) *Player {
	return &Player{
		ID:       id,
		Nickname: nickname,
		JoinedAt: time.Now(),
	}
}

// NicknameOr returns nickname, or fallback when nickname is blank
func NicknameOr(nickname, fallback string) string {
	if nickname == "" {
		return fallback
	}
	return nickname
}
