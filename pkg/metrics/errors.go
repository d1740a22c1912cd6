package metrics

import "errors"

// Sentinel kinds for metrics errors.
var (
	ErrRegistration = errors.New("metric registration failed")
)
