package rating

import "errors"

// Sentinel kinds for rating errors.
var (
	ErrNoGames = errors.New("no completed games to rate")
)
