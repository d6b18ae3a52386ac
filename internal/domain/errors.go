package domain

import "errors"

// Domain errors
var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrInvalidState       = errors.New("invalid action for current game state")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrInvalidLength      = errors.New("word must be exactly 5 letters")
	ErrInvalidWord        = errors.New("word must contain only letters")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrNotHost            = errors.New("only the host can perform this action")
	ErrCodeSpaceExhausted = errors.New("room code space exhausted")
)
