package strategy

import "errors"

// ErrHorizonMismatch is returned when a snapshot was collected for a
// different horizon than the one being scored.
var ErrHorizonMismatch = errors.New("snapshot horizon mismatch")
