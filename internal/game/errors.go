package game

import (
	"errors"
	"strings"
)

var (
	ErrUnknownArena    = errors.New("unknown arena")
	ErrUnknownPlayer   = errors.New("unknown player")
	ErrUnknownUnit     = errors.New("unknown unit")
	ErrTraderPlacement = errors.New("trader placement failed")
	ErrNoLocation      = errors.New("trader location not configured")
	ErrNotInGame       = errors.New("arena is not in game")
	ErrAlreadyInGame   = errors.New("arena is already in game")
)

// ConfigIncompleteError lists the required locations that are not set.
type ConfigIncompleteError struct {
	Missing []string
}

func (e *ConfigIncompleteError) Error() string {
	return "arena config incomplete: " + strings.Join(e.Missing, ", ")
}
