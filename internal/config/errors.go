package config

import "errors"

var (
	// ErrInvalidThresholds is returned when a threshold table is out of order or out of range.
	ErrInvalidThresholds = errors.New("invalid thresholds")

	// ErrUnknownTier is returned for weight tiers other than prime, standard, growth and other.
	ErrUnknownTier = errors.New("unknown market tier")

	// ErrMissingTier is returned when a horizon omits the weights of a required tier.
	ErrMissingTier = errors.New("missing market tier weights")
)
