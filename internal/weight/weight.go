// Package weight defines the branded factor weights and the per-horizon
// weight bundles built from them. A weight can only be obtained through its
// constructor, so an out-of-range value never reaches a bundle.
package weight

import (
	"fmt"
	"math"

	"ValueSentinel/internal/model"
)

const (
	Min = 0.0
	Max = 100.0
)

func validate(f model.Factor, v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < Min || v > Max {
		return 0, fmt.Errorf("%w: %s=%v (want %v..%v)", ErrInvalidWeight, f, v, Min, Max)
	}
	return v, nil
}

// PER weights the PER sub-score.
type PER struct{ v float64 }

func NewPER(v float64) (PER, error) {
	x, err := validate(model.FactorPER, v)
	return PER{x}, err
}

func (w PER) Value() float64 { return w.v }

// PBR weights the PBR sub-score.
type PBR struct{ v float64 }

func NewPBR(v float64) (PBR, error) {
	x, err := validate(model.FactorPBR, v)
	return PBR{x}, err
}

func (w PBR) Value() float64 { return w.v }

// RSI weights the RSI sub-score.
type RSI struct{ v float64 }

func NewRSI(v float64) (RSI, error) {
	x, err := validate(model.FactorRSI, v)
	return RSI{x}, err
}

func (w RSI) Value() float64 { return w.v }

// PriceRange weights the price-range sub-score.
type PriceRange struct{ v float64 }

func NewPriceRange(v float64) (PriceRange, error) {
	x, err := validate(model.FactorPriceRange, v)
	return PriceRange{x}, err
}

func (w PriceRange) Value() float64 { return w.v }

// EPSGrowth weights the EPS-growth sub-score.
type EPSGrowth struct{ v float64 }

func NewEPSGrowth(v float64) (EPSGrowth, error) {
	x, err := validate(model.FactorEPSGrowth, v)
	return EPSGrowth{x}, err
}

func (w EPSGrowth) Value() float64 { return w.v }

// TagScore weights the theme-tag sub-score.
type TagScore struct{ v float64 }

func NewTagScore(v float64) (TagScore, error) {
	x, err := validate(model.FactorTagScore, v)
	return TagScore{x}, err
}

func (w TagScore) Value() float64 { return w.v }

// ROE weights the ROE sub-score.
type ROE struct{ v float64 }

func NewROE(v float64) (ROE, error) {
	x, err := validate(model.FactorROE, v)
	return ROE{x}, err
}

func (w ROE) Value() float64 { return w.v }

// RSIMomentum weights the RSI-momentum sub-score.
type RSIMomentum struct{ v float64 }

func NewRSIMomentum(v float64) (RSIMomentum, error) {
	x, err := validate(model.FactorRSIMomentum, v)
	return RSIMomentum{x}, err
}

func (w RSIMomentum) Value() float64 { return w.v }

// VolumeSurge weights the volume-surge sub-score.
type VolumeSurge struct{ v float64 }

func NewVolumeSurge(v float64) (VolumeSurge, error) {
	x, err := validate(model.FactorVolumeSurge, v)
	return VolumeSurge{x}, err
}

func (w VolumeSurge) Value() float64 { return w.v }
