package domain

import "errors"

// Domain errors
var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrCodeSpaceExhausted = errors.New("failed to generate unique room code")
	ErrRateLimited        = errors.New("too many requests")
	ErrInvalidMessage     = errors.New("invalid message")
	ErrPlayerNotFound     = errors.New("player not found")
)
