package config

import (
	"fmt"
	"sort"

	"ValueSentinel/internal/model"
	"ValueSentinel/internal/weight"
)

// ValuationThresholds partition a value-to-sector-average ratio (percent).
// At or below Excellent scores 100, then 75, 50, 25 up to Poor; above Poor scores 0.
type ValuationThresholds struct {
	Excellent float64 `yaml:"excellent"`
	Good      float64 `yaml:"good"`
	Fair      float64 `yaml:"fair"`
	Poor      float64 `yaml:"poor"`
}

// PBRPenaltyThresholds dampen a low PBR when profitability is weak.
type PBRPenaltyThresholds struct {
	SeverelyLow   float64 `yaml:"severely_low"`
	Low           float64 `yaml:"low"`
	LowROE        float64 `yaml:"low_roe"`
	SeverePenalty float64 `yaml:"severe_penalty"`
	LowPenalty    float64 `yaml:"low_penalty"`
}

type RSIThresholds struct {
	Oversold   float64 `yaml:"oversold"`
	Neutral    float64 `yaml:"neutral"`
	Overbought float64 `yaml:"overbought"`
}

// PriceRangeThresholds partition the percentile of the price within its window.
type PriceRangeThresholds struct {
	Bottom float64 `yaml:"bottom"`
	Low    float64 `yaml:"low"`
	Mid    float64 `yaml:"mid"`
	High   float64 `yaml:"high"`
}

type EPSGrowthThresholds struct {
	LowGrowth   float64 `yaml:"low_growth"`
	HighGrowth  float64 `yaml:"high_growth"`
	Exceptional float64 `yaml:"exceptional"`
}

type ROEThresholds struct {
	Low    float64 `yaml:"low"`
	Medium float64 `yaml:"medium"`
	High   float64 `yaml:"high"`
}

// MomentumThresholds are in RSI points of short-minus-base RSI.
type MomentumThresholds struct {
	Moderate float64 `yaml:"moderate"`
	Strong   float64 `yaml:"strong"`
}

// VolumeSurgeThresholds partition the short/long average volume ratio.
// ExtremeCap caps the score at 50 for ratios at or above it; 0 disables the cap.
type VolumeSurgeThresholds struct {
	Quiet      float64 `yaml:"quiet"`
	Normal     float64 `yaml:"normal"`
	Elevated   float64 `yaml:"elevated"`
	Surge      float64 `yaml:"surge"`
	ExtremeCap float64 `yaml:"extreme_cap"`
}

type TagThresholds struct {
	PointsPerMatch float64 `yaml:"points_per_match"`
}

// SectorThresholds map a sector ratio linearly onto 100 (at Floor) .. 0 (at Ceiling).
type SectorThresholds struct {
	Floor   float64 `yaml:"floor"`
	Ceiling float64 `yaml:"ceiling"`
}

// Thresholds is the threshold table of one horizon.
type Thresholds struct {
	PER         ValuationThresholds   `yaml:"per"`
	PBR         ValuationThresholds   `yaml:"pbr"`
	PBRPenalty  PBRPenaltyThresholds  `yaml:"pbr_penalty"`
	RSI         RSIThresholds         `yaml:"rsi"`
	PriceRange  PriceRangeThresholds  `yaml:"price_range"`
	EPSGrowth   EPSGrowthThresholds   `yaml:"eps_growth"`
	ROE         ROEThresholds         `yaml:"roe"`
	RSIMomentum MomentumThresholds    `yaml:"rsi_momentum"`
	VolumeSurge VolumeSurgeThresholds `yaml:"volume_surge"`
	Tag         TagThresholds         `yaml:"tag"`
	Sector      SectorThresholds      `yaml:"sector"`
}

// Validate checks that every table is strictly ordered.
func (t Thresholds) Validate() error {
	checks := []struct {
		name string
		vals []float64
	}{
		{"per", []float64{t.PER.Excellent, t.PER.Good, t.PER.Fair, t.PER.Poor}},
		{"pbr", []float64{t.PBR.Excellent, t.PBR.Good, t.PBR.Fair, t.PBR.Poor}},
		{"pbr_penalty", []float64{t.PBRPenalty.SeverelyLow, t.PBRPenalty.Low}},
		{"rsi", []float64{t.RSI.Oversold, t.RSI.Neutral, t.RSI.Overbought}},
		{"price_range", []float64{t.PriceRange.Bottom, t.PriceRange.Low, t.PriceRange.Mid, t.PriceRange.High}},
		{"eps_growth", []float64{t.EPSGrowth.LowGrowth, t.EPSGrowth.HighGrowth, t.EPSGrowth.Exceptional}},
		{"roe", []float64{t.ROE.Low, t.ROE.Medium, t.ROE.High}},
		{"rsi_momentum", []float64{0, t.RSIMomentum.Moderate, t.RSIMomentum.Strong}},
		{"volume_surge", []float64{t.VolumeSurge.Quiet, t.VolumeSurge.Normal, t.VolumeSurge.Elevated, t.VolumeSurge.Surge}},
		{"sector", []float64{t.Sector.Floor, t.Sector.Ceiling}},
	}
	for _, c := range checks {
		for i := 1; i < len(c.vals); i++ {
			if c.vals[i] <= c.vals[i-1] {
				return fmt.Errorf("%w: %s must be strictly increasing, got %v", ErrInvalidThresholds, c.name, c.vals)
			}
		}
	}
	p := t.PBRPenalty
	if p.SeverePenalty <= 0 || p.SeverePenalty > 1 || p.LowPenalty <= 0 || p.LowPenalty > 1 {
		return fmt.Errorf("%w: pbr_penalty multipliers must be in (0,1]", ErrInvalidThresholds)
	}
	if p.SeverePenalty > p.LowPenalty {
		return fmt.Errorf("%w: pbr_penalty.severe_penalty must not exceed low_penalty", ErrInvalidThresholds)
	}
	if t.VolumeSurge.ExtremeCap < 0 || (t.VolumeSurge.ExtremeCap > 0 && t.VolumeSurge.ExtremeCap <= t.VolumeSurge.Surge) {
		return fmt.Errorf("%w: volume_surge.extreme_cap must be 0 or above surge", ErrInvalidThresholds)
	}
	if t.Tag.PointsPerMatch <= 0 || t.Tag.PointsPerMatch > 100 {
		return fmt.Errorf("%w: tag.points_per_match must be in (0,100]", ErrInvalidThresholds)
	}
	return nil
}

// TrapConfig holds the financial-health gates applied before ranking.
type TrapConfig struct {
	EquityRatioFloor        float64 `yaml:"equity_ratio_floor"`
	ProfitDeclinePeriods    int     `yaml:"profit_decline_periods"`
	NegativeCashFlowPeriods int     `yaml:"negative_cash_flow_periods"`
}

// Validate checks that the trap gates are usable.
func (t TrapConfig) Validate() error {
	if t.EquityRatioFloor < 0 || t.EquityRatioFloor > 100 {
		return fmt.Errorf("%w: trap.equity_ratio_floor must be in [0,100]", ErrInvalidThresholds)
	}
	if t.ProfitDeclinePeriods < 1 || t.NegativeCashFlowPeriods < 1 {
		return fmt.Errorf("%w: trap periods must be at least 1", ErrInvalidThresholds)
	}
	return nil
}

// HorizonConfig is the resolved, immutable configuration of one horizon.
type HorizonConfig struct {
	Horizon    model.Horizon
	Weights    map[model.MarketTier]weight.Bundle
	Thresholds Thresholds
}

// WeightsFor returns the bundle of tier, falling back to the other tier.
func (h *HorizonConfig) WeightsFor(tier model.MarketTier) weight.Bundle {
	if b, ok := h.Weights[tier]; ok {
		return b
	}
	return h.Weights[model.TierOther]
}

// Scoring is the read-only scoring configuration shared by every consumer.
type Scoring struct {
	Horizons map[model.Horizon]*HorizonConfig
	Trap     TrapConfig
}

// Horizon returns the configuration of h or ErrUnknownHorizon.
func (s *Scoring) Horizon(h model.Horizon) (*HorizonConfig, error) {
	hc, ok := s.Horizons[h]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownHorizon, h)
	}
	return hc, nil
}

// HorizonFile is the YAML shape of one horizon. Weights are keyed by market
// tier then factor; a tier given in YAML must list every factor of the horizon.
type HorizonFile struct {
	Weights    map[string]map[string]float64 `yaml:"weights"`
	Thresholds Thresholds                    `yaml:"thresholds"`
}

// ScoringFile is the YAML shape of the scoring section.
type ScoringFile struct {
	MidTerm  HorizonFile `yaml:"mid_term"`
	LongTerm HorizonFile `yaml:"long_term"`
	Trap     TrapConfig  `yaml:"trap"`
}

// BuildScoring validates f and resolves it into a Scoring. Any invalid weight
// or threshold fails the whole build.
func BuildScoring(f ScoringFile) (*Scoring, error) {
	s := &Scoring{Horizons: make(map[model.Horizon]*HorizonConfig, 2), Trap: f.Trap}
	if err := f.Trap.Validate(); err != nil {
		return nil, err
	}
	for h, hf := range map[model.Horizon]HorizonFile{model.MidTerm: f.MidTerm, model.LongTerm: f.LongTerm} {
		hc, err := buildHorizon(h, hf)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", h, err)
		}
		s.Horizons[h] = hc
	}
	return s, nil
}

func buildHorizon(h model.Horizon, hf HorizonFile) (*HorizonConfig, error) {
	if err := hf.Thresholds.Validate(); err != nil {
		return nil, err
	}
	hc := &HorizonConfig{
		Horizon:    h,
		Weights:    make(map[model.MarketTier]weight.Bundle, len(model.Tiers)),
		Thresholds: hf.Thresholds,
	}

	tiers := make([]string, 0, len(hf.Weights))
	for k := range hf.Weights {
		tiers = append(tiers, k)
	}
	sort.Strings(tiers)
	for _, name := range tiers {
		tier := model.MarketTier(name)
		if !knownTier(tier) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTier, name)
		}
		raw := make(map[model.Factor]float64, len(hf.Weights[name]))
		for f, v := range hf.Weights[name] {
			raw[model.Factor(f)] = v
		}
		b, err := weight.FromMap(h, raw)
		if err != nil {
			return nil, fmt.Errorf("weights.%s: %w", name, err)
		}
		hc.Weights[tier] = b
	}

	for _, tier := range []model.MarketTier{model.TierPrime, model.TierStandard, model.TierGrowth} {
		if _, ok := hc.Weights[tier]; !ok {
			return nil, fmt.Errorf("%w: weights.%s", ErrMissingTier, tier)
		}
	}
	// other shares the prime bundle unless configured explicitly.
	if _, ok := hc.Weights[model.TierOther]; !ok {
		hc.Weights[model.TierOther] = hc.Weights[model.TierPrime]
	}
	return hc, nil
}

func knownTier(t model.MarketTier) bool {
	for _, k := range model.Tiers {
		if k == t {
			return true
		}
	}
	return false
}

// DefaultScoringFile returns the hand-tuned default scoring configuration.
func DefaultScoringFile() ScoringFile {
	return ScoringFile{
		MidTerm: HorizonFile{
			Weights: map[string]map[string]float64{
				"prime":    {"per": 15, "pbr": 10, "rsi": 20, "price_range": 15, "tag_score": 10, "rsi_momentum": 15, "volume_surge": 15},
				"standard": {"per": 15, "pbr": 12, "rsi": 18, "price_range": 15, "tag_score": 10, "rsi_momentum": 15, "volume_surge": 15},
				"growth":   {"per": 8, "pbr": 7, "rsi": 20, "price_range": 15, "tag_score": 15, "rsi_momentum": 20, "volume_surge": 15},
			},
			Thresholds: Thresholds{
				PER:         ValuationThresholds{Excellent: 80, Good: 95, Fair: 110, Poor: 125},
				PBR:         ValuationThresholds{Excellent: 80, Good: 95, Fair: 110, Poor: 125},
				PBRPenalty:  PBRPenaltyThresholds{SeverelyLow: 0.5, Low: 1.0, LowROE: 5, SeverePenalty: 0.5, LowPenalty: 0.75},
				RSI:         RSIThresholds{Oversold: 30, Neutral: 50, Overbought: 70},
				PriceRange:  PriceRangeThresholds{Bottom: 20, Low: 40, Mid: 60, High: 80},
				EPSGrowth:   EPSGrowthThresholds{LowGrowth: 5, HighGrowth: 15, Exceptional: 30},
				ROE:         ROEThresholds{Low: 5, Medium: 10, High: 15},
				RSIMomentum: MomentumThresholds{Moderate: 3, Strong: 8},
				VolumeSurge: VolumeSurgeThresholds{Quiet: 0.7, Normal: 1.0, Elevated: 1.5, Surge: 2.0},
				Tag:         TagThresholds{PointsPerMatch: 25},
				Sector:      SectorThresholds{Floor: 50, Ceiling: 150},
			},
		},
		LongTerm: HorizonFile{
			Weights: map[string]map[string]float64{
				"prime":    {"per": 22, "pbr": 18, "rsi": 10, "price_range": 10, "eps_growth": 15, "roe": 15, "tag_score": 10},
				"standard": {"per": 22, "pbr": 20, "rsi": 10, "price_range": 10, "eps_growth": 13, "roe": 15, "tag_score": 10},
				"growth":   {"per": 15, "pbr": 10, "rsi": 10, "price_range": 10, "eps_growth": 25, "roe": 20, "tag_score": 10},
			},
			Thresholds: Thresholds{
				PER:         ValuationThresholds{Excellent: 70, Good: 90, Fair: 110, Poor: 130},
				PBR:         ValuationThresholds{Excellent: 70, Good: 90, Fair: 110, Poor: 130},
				PBRPenalty:  PBRPenaltyThresholds{SeverelyLow: 0.5, Low: 1.0, LowROE: 5, SeverePenalty: 0.5, LowPenalty: 0.75},
				RSI:         RSIThresholds{Oversold: 30, Neutral: 50, Overbought: 70},
				PriceRange:  PriceRangeThresholds{Bottom: 20, Low: 40, Mid: 60, High: 80},
				EPSGrowth:   EPSGrowthThresholds{LowGrowth: 5, HighGrowth: 15, Exceptional: 30},
				ROE:         ROEThresholds{Low: 5, Medium: 10, High: 15},
				RSIMomentum: MomentumThresholds{Moderate: 3, Strong: 8},
				VolumeSurge: VolumeSurgeThresholds{Quiet: 0.7, Normal: 1.0, Elevated: 1.5, Surge: 2.0},
				Tag:         TagThresholds{PointsPerMatch: 25},
				Sector:      SectorThresholds{Floor: 50, Ceiling: 150},
			},
		},
		Trap: TrapConfig{
			EquityRatioFloor:        30,
			ProfitDeclinePeriods:    3,
			NegativeCashFlowPeriods: 2,
		},
	}
}

// DefaultScoring returns the resolved default configuration.
func DefaultScoring() *Scoring {
	s, err := BuildScoring(DefaultScoringFile())
	if err != nil {
		panic(fmt.Sprintf("default scoring config is invalid: %v", err))
	}
	return s
}
