package features

import "errors"

// ErrInsufficientHistory is returned when either side of a matchup has no
// snapshot entering the requested week or any earlier one.
var ErrInsufficientHistory = errors.New("insufficient history for matchup")
