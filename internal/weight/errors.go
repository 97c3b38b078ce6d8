package weight

import "errors"

var (
	// ErrInvalidWeight is returned when a weight is outside [0,100] or not finite.
	ErrInvalidWeight = errors.New("invalid weight")

	// ErrUnknownFactor is returned when a bundle map names a factor the horizon does not weight.
	ErrUnknownFactor = errors.New("unknown factor for horizon")

	// ErrMissingFactor is returned when a bundle map omits a factor the horizon weights.
	ErrMissingFactor = errors.New("missing factor weight")
)
