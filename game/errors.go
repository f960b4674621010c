package game

import "errors"

var (
	ErrInvalidAbility  = errors.New("invalid ability")
	ErrUnknownCaster   = errors.New("unknown caster")
	ErrMalformedInput  = errors.New("malformed input")
	ErrDuplicatePlayer = errors.New("duplicate player")
	ErrInvalidMap      = errors.New("invalid map")
)
