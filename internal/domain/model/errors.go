package model

import "errors"

// Sentinel kinds for game data errors.
var (
	// ErrInvalidGame marks a completed game in an impossible state. The
	// offending game is excluded from rating and stat contributions.
	ErrInvalidGame = errors.New("invalid game data")
	// ErrTiedScore marks a completed game with equal scores; the sport has
	// no ties.
	ErrTiedScore = errors.New("tied score")
	// ErrMissingStats marks a completed game without both stat records.
	ErrMissingStats = errors.New("missing team stats")
)
