package weight

import (
	"fmt"
	"sort"

	"ValueSentinel/internal/model"
)

// Entry is one factor weight of a bundle.
type Entry struct {
	Factor model.Factor
	Value  float64
}

// Bundle is a complete, closed set of factor weights for one horizon.
// The sum of the weights is not required to be 100.
type Bundle interface {
	Horizon() model.Horizon
	Entries() []Entry
	Sum() float64
}

// MidTermFactors are the factors weighted by the mid-term horizon.
var MidTermFactors = []model.Factor{
	model.FactorPER,
	model.FactorPBR,
	model.FactorRSI,
	model.FactorPriceRange,
	model.FactorTagScore,
	model.FactorRSIMomentum,
	model.FactorVolumeSurge,
}

// LongTermFactors are the factors weighted by the long-term horizon.
var LongTermFactors = []model.Factor{
	model.FactorPER,
	model.FactorPBR,
	model.FactorRSI,
	model.FactorPriceRange,
	model.FactorEPSGrowth,
	model.FactorROE,
	model.FactorTagScore,
}

// FactorsFor returns the weighted factors of h.
func FactorsFor(h model.Horizon) ([]model.Factor, error) {
	switch h {
	case model.MidTerm:
		return MidTermFactors, nil
	case model.LongTerm:
		return LongTermFactors, nil
	}
	return nil, fmt.Errorf("%w: %q", model.ErrUnknownHorizon, h)
}

// MidTerm is the weight bundle of the mid-term horizon.
type MidTerm struct {
	PER         PER
	PBR         PBR
	RSI         RSI
	PriceRange  PriceRange
	TagScore    TagScore
	RSIMomentum RSIMomentum
	VolumeSurge VolumeSurge
}

func (MidTerm) Horizon() model.Horizon { return model.MidTerm }

func (b MidTerm) Entries() []Entry {
	return []Entry{
		{model.FactorPER, b.PER.Value()},
		{model.FactorPBR, b.PBR.Value()},
		{model.FactorRSI, b.RSI.Value()},
		{model.FactorPriceRange, b.PriceRange.Value()},
		{model.FactorTagScore, b.TagScore.Value()},
		{model.FactorRSIMomentum, b.RSIMomentum.Value()},
		{model.FactorVolumeSurge, b.VolumeSurge.Value()},
	}
}

func (b MidTerm) Sum() float64 { return sum(b.Entries()) }

// LongTerm is the weight bundle of the long-term horizon.
type LongTerm struct {
	PER        PER
	PBR        PBR
	RSI        RSI
	PriceRange PriceRange
	EPSGrowth  EPSGrowth
	ROE        ROE
	TagScore   TagScore
}

func (LongTerm) Horizon() model.Horizon { return model.LongTerm }

func (b LongTerm) Entries() []Entry {
	return []Entry{
		{model.FactorPER, b.PER.Value()},
		{model.FactorPBR, b.PBR.Value()},
		{model.FactorRSI, b.RSI.Value()},
		{model.FactorPriceRange, b.PriceRange.Value()},
		{model.FactorEPSGrowth, b.EPSGrowth.Value()},
		{model.FactorROE, b.ROE.Value()},
		{model.FactorTagScore, b.TagScore.Value()},
	}
}

func (b LongTerm) Sum() float64 { return sum(b.Entries()) }

func sum(entries []Entry) float64 {
	total := 0.0
	for _, e := range entries {
		total += e.Value
	}
	return total
}

// MidTermFromMap builds a mid-term bundle from raw configured values.
// Every mid-term factor must be present and no other factor may be.
func MidTermFromMap(raw map[model.Factor]float64) (MidTerm, error) {
	if err := checkKeys(raw, MidTermFactors); err != nil {
		return MidTerm{}, err
	}
	var (
		b   MidTerm
		err error
	)
	if b.PER, err = NewPER(raw[model.FactorPER]); err != nil {
		return MidTerm{}, err
	}
	if b.PBR, err = NewPBR(raw[model.FactorPBR]); err != nil {
		return MidTerm{}, err
	}
	if b.RSI, err = NewRSI(raw[model.FactorRSI]); err != nil {
		return MidTerm{}, err
	}
	if b.PriceRange, err = NewPriceRange(raw[model.FactorPriceRange]); err != nil {
		return MidTerm{}, err
	}
	if b.TagScore, err = NewTagScore(raw[model.FactorTagScore]); err != nil {
		return MidTerm{}, err
	}
	if b.RSIMomentum, err = NewRSIMomentum(raw[model.FactorRSIMomentum]); err != nil {
		return MidTerm{}, err
	}
	if b.VolumeSurge, err = NewVolumeSurge(raw[model.FactorVolumeSurge]); err != nil {
		return MidTerm{}, err
	}
	return b, nil
}

// LongTermFromMap builds a long-term bundle from raw configured values.
// Every long-term factor must be present and no other factor may be.
func LongTermFromMap(raw map[model.Factor]float64) (LongTerm, error) {
	if err := checkKeys(raw, LongTermFactors); err != nil {
		return LongTerm{}, err
	}
	var (
		b   LongTerm
		err error
	)
	if b.PER, err = NewPER(raw[model.FactorPER]); err != nil {
		return LongTerm{}, err
	}
	if b.PBR, err = NewPBR(raw[model.FactorPBR]); err != nil {
		return LongTerm{}, err
	}
	if b.RSI, err = NewRSI(raw[model.FactorRSI]); err != nil {
		return LongTerm{}, err
	}
	if b.PriceRange, err = NewPriceRange(raw[model.FactorPriceRange]); err != nil {
		return LongTerm{}, err
	}
	if b.EPSGrowth, err = NewEPSGrowth(raw[model.FactorEPSGrowth]); err != nil {
		return LongTerm{}, err
	}
	if b.ROE, err = NewROE(raw[model.FactorROE]); err != nil {
		return LongTerm{}, err
	}
	if b.TagScore, err = NewTagScore(raw[model.FactorTagScore]); err != nil {
		return LongTerm{}, err
	}
	return b, nil
}

// FromMap dispatches to the bundle constructor of h.
func FromMap(h model.Horizon, raw map[model.Factor]float64) (Bundle, error) {
	switch h {
	case model.MidTerm:
		return MidTermFromMap(raw)
	case model.LongTerm:
		return LongTermFromMap(raw)
	}
	return nil, fmt.Errorf("%w: %q", model.ErrUnknownHorizon, h)
}

func checkKeys(raw map[model.Factor]float64, want []model.Factor) error {
	allowed := make(map[model.Factor]bool, len(want))
	for _, f := range want {
		allowed[f] = true
		if _, ok := raw[f]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingFactor, f)
		}
	}
	var unknown []string
	for f := range raw {
		if !allowed[f] {
			unknown = append(unknown, string(f))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: %v", ErrUnknownFactor, unknown)
	}
	return nil
}
