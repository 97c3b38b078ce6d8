package model

import "errors"

var (
	// ErrUnknownHorizon is returned for horizon keys other than mid_term and long_term.
	ErrUnknownHorizon = errors.New("unknown horizon")
)
