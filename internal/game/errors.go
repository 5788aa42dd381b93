package game

import "errors"

// Sentinel errors returned by the registry and session operations. The
// transport layer maps these onto HTTP statuses with errors.Is.
var (
	ErrGameNotFound      = errors.New("game not found")
	ErrDuplicatePlayer   = errors.New("player already exists")
	ErrGameFull          = errors.New("game is full")
	ErrGameFinished      = errors.New("game is finished")
	ErrUnknownPlayer     = errors.New("player not in game")
	ErrUnknownChoice     = errors.New("choice not in current scene")
	ErrInvalidStoryState = errors.New("invalid story state")
)
