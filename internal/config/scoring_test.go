package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ValueSentinel/internal/model"
	"ValueSentinel/internal/weight"
)

func TestDefaultScoring_LongTermPrime(t *testing.T) {
	s := DefaultScoring()
	hc, err := s.Horizon(model.LongTerm)
	require.NoError(t, err)

	b := hc.WeightsFor(model.TierPrime)
	got := map[model.Factor]float64{}
	for _, e := range b.Entries() {
		got[e.Factor] = e.Value
	}
	assert.Equal(t, 22.0, got[model.FactorPER])
	assert.Equal(t, 18.0, got[model.FactorPBR])
	assert.Equal(t, 10.0, got[model.FactorRSI])
	assert.Equal(t, 10.0, got[model.FactorPriceRange])
	assert.Equal(t, 70.0, hc.Thresholds.PER.Excellent)
	assert.Equal(t, 30.0, hc.Thresholds.RSI.Oversold)
	assert.Equal(t, 20.0, hc.Thresholds.PriceRange.Bottom)
}

func TestDefaultScoring_HorizonKeySets(t *testing.T) {
	s := DefaultScoring()
	for _, h := range model.Horizons {
		hc, err := s.Horizon(h)
		require.NoError(t, err)
		want, err := weight.FactorsFor(h)
		require.NoError(t, err)
		for _, tier := range model.Tiers {
			b := hc.WeightsFor(tier)
			require.NotNil(t, b, "%s/%s", h, tier)
			assert.Equal(t, h, b.Horizon())
			var got []model.Factor
			for _, e := range b.Entries() {
				got = append(got, e.Factor)
			}
			assert.ElementsMatch(t, want, got, "%s/%s", h, tier)
		}
	}

	mid, _ := s.Horizon(model.MidTerm)
	for _, e := range mid.WeightsFor(model.TierPrime).Entries() {
		assert.NotEqual(t, model.FactorROE, e.Factor)
	}
}

func TestOtherTierSharesPrime(t *testing.T) {
	s := DefaultScoring()
	for _, h := range model.Horizons {
		hc, _ := s.Horizon(h)
		assert.Equal(t, hc.WeightsFor(model.TierPrime), hc.WeightsFor(model.TierOther))
		assert.Equal(t, hc.WeightsFor(model.TierPrime), hc.WeightsFor(model.ParseMarketTier("TSE Pro Market")))
	}
}

func TestScoring_UnknownHorizon(t *testing.T) {
	_, err := DefaultScoring().Horizon("short_term")
	assert.ErrorIs(t, err, model.ErrUnknownHorizon)
}

func TestBuildScoring_InvalidWeightIsFatal(t *testing.T) {
	f := DefaultScoringFile()
	f.LongTerm.Weights["growth"] = map[string]float64{
		"per": 15, "pbr": 10, "rsi": 10, "price_range": 10, "eps_growth": 125, "roe": 20, "tag_score": 10,
	}
	_, err := BuildScoring(f)
	assert.ErrorIs(t, err, weight.ErrInvalidWeight)
}

func TestBuildScoring_TierErrors(t *testing.T) {
	t.Run("unknown tier", func(t *testing.T) {
		f := DefaultScoringFile()
		f.MidTerm.Weights["jasdaq"] = f.MidTerm.Weights["prime"]
		_, err := BuildScoring(f)
		assert.ErrorIs(t, err, ErrUnknownTier)
	})
	t.Run("missing tier", func(t *testing.T) {
		f := DefaultScoringFile()
		delete(f.MidTerm.Weights, "standard")
		_, err := BuildScoring(f)
		assert.ErrorIs(t, err, ErrMissingTier)
	})
	t.Run("explicit other bundle", func(t *testing.T) {
		f := DefaultScoringFile()
		f.LongTerm.Weights["other"] = map[string]float64{
			"per": 10, "pbr": 10, "rsi": 10, "price_range": 10, "eps_growth": 10, "roe": 10, "tag_score": 0,
		}
		s, err := BuildScoring(f)
		require.NoError(t, err)
		hc, _ := s.Horizon(model.LongTerm)
		assert.Equal(t, 60.0, hc.WeightsFor(model.TierOther).Sum())
		assert.Equal(t, 100.0, hc.WeightsFor(model.TierPrime).Sum())
	})
}

func TestThresholds_Validate(t *testing.T) {
	base := DefaultScoringFile().LongTerm.Thresholds
	require.NoError(t, base.Validate())

	cases := map[string]func(*Thresholds){
		"per out of order":           func(th *Thresholds) { th.PER.Good = th.PER.Excellent },
		"rsi out of order":           func(th *Thresholds) { th.RSI.Neutral = 20 },
		"price range out of order":   func(th *Thresholds) { th.PriceRange.High = 10 },
		"penalty above one":          func(th *Thresholds) { th.PBRPenalty.LowPenalty = 1.5 },
		"severe milder than low":     func(th *Thresholds) { th.PBRPenalty.SeverePenalty = 0.9 },
		"cap below surge":            func(th *Thresholds) { th.VolumeSurge.ExtremeCap = 1.2 },
		"zero tag points":            func(th *Thresholds) { th.Tag.PointsPerMatch = 0 },
		"sector floor above ceiling": func(th *Thresholds) { th.Sector.Floor = 200 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			th := base
			mutate(&th)
			assert.ErrorIs(t, th.Validate(), ErrInvalidThresholds)
		})
	}
}

func TestTrapConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultScoringFile().Trap.Validate())
	assert.ErrorIs(t, TrapConfig{EquityRatioFloor: 30, ProfitDeclinePeriods: 0, NegativeCashFlowPeriods: 2}.Validate(), ErrInvalidThresholds)
	assert.ErrorIs(t, TrapConfig{EquityRatioFloor: 130, ProfitDeclinePeriods: 3, NegativeCashFlowPeriods: 2}.Validate(), ErrInvalidThresholds)
}
