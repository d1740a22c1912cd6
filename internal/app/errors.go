package service

import "errors"

// Sentinel kinds for pipeline service errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrNoRatings  = errors.New("ratings not computed yet")
)
