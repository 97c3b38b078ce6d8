package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ValueSentinel/internal/config"
	"ValueSentinel/internal/model"
)

func longThresholds(t *testing.T) config.Thresholds {
	t.Helper()
	hc, err := config.DefaultScoring().Horizon(model.LongTerm)
	require.NoError(t, err)
	return hc.Thresholds
}

func midThresholds(t *testing.T) config.Thresholds {
	t.Helper()
	hc, err := config.DefaultScoring().Horizon(model.MidTerm)
	require.NoError(t, err)
	return hc.Thresholds
}

func TestScorers_NilInNilOut(t *testing.T) {
	th := longThresholds(t)
	assert.Nil(t, ScorePER(nil, model.Float(10), th.PER))
	assert.Nil(t, ScorePBR(nil, model.Float(1), nil, th.PBR, th.PBRPenalty))
	assert.Nil(t, ScoreRSI(nil, th.RSI))
	assert.Nil(t, ScorePriceRange(nil, model.Float(10), model.Float(5), th.PriceRange))
	assert.Nil(t, ScoreEPSGrowth(nil, th.EPSGrowth))
	assert.Nil(t, ScoreROE(nil, th.ROE))
	assert.Nil(t, ScoreRSIMomentum(nil, th.RSIMomentum))
	assert.Nil(t, ScoreVolumeSurge(nil, th.VolumeSurge))
	assert.Nil(t, ScoreTag(nil, NewFavorableTags("ai"), th.Tag))
}

func TestScoreRSI_Buckets(t *testing.T) {
	th := longThresholds(t).RSI
	cases := []struct {
		rsi  float64
		want float64
	}{
		{10, 100}, {30, 100}, {35, 75}, {40, 75}, {45, 50}, {50, 50}, {60, 25}, {70, 25}, {85, 0},
	}
	for _, c := range cases {
		got := ScoreRSI(model.Float(c.rsi), th)
		require.NotNil(t, got)
		assert.Equal(t, c.want, *got, "rsi=%v", c.rsi)
	}
}

func TestScoreRSI_NeverIncreasesWithRSI(t *testing.T) {
	th := longThresholds(t).RSI
	prev := 101.0
	for rsi := 0.0; rsi <= 100; rsi += 0.5 {
		got := *ScoreRSI(model.Float(rsi), th)
		assert.LessOrEqual(t, got, prev, "rsi=%v", rsi)
		prev = got
	}
}

func TestScorePriceRange(t *testing.T) {
	th := longThresholds(t).PriceRange
	high, low := model.Float(200), model.Float(100)

	assert.Equal(t, 100.0, *ScorePriceRange(model.Float(100), high, low, th))
	assert.Equal(t, 100.0, *ScorePriceRange(model.Float(120), high, low, th))
	assert.Equal(t, 75.0, *ScorePriceRange(model.Float(130), high, low, th))
	assert.Equal(t, 50.0, *ScorePriceRange(model.Float(150), high, low, th))
	assert.Equal(t, 25.0, *ScorePriceRange(model.Float(175), high, low, th))
	assert.Equal(t, 0.0, *ScorePriceRange(model.Float(200), high, low, th))
	// outside the window clamps
	assert.Equal(t, 100.0, *ScorePriceRange(model.Float(90), high, low, th))

	assert.Nil(t, ScorePriceRange(model.Float(100), model.Float(100), model.Float(100), th))
}

func TestScoreEPSGrowth_Monotonic(t *testing.T) {
	th := longThresholds(t).EPSGrowth
	assert.Equal(t, 0.0, *ScoreEPSGrowth(model.Float(-3), th))
	assert.Equal(t, 25.0, *ScoreEPSGrowth(model.Float(0), th))
	assert.Equal(t, 50.0, *ScoreEPSGrowth(model.Float(5), th))
	assert.Equal(t, 75.0, *ScoreEPSGrowth(model.Float(15), th))
	assert.Equal(t, 100.0, *ScoreEPSGrowth(model.Float(30), th))

	prev := -1.0
	for g := -20.0; g <= 60; g++ {
		got := *ScoreEPSGrowth(model.Float(g), th)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestScoreROE(t *testing.T) {
	th := longThresholds(t).ROE
	assert.Equal(t, 0.0, *ScoreROE(model.Float(-1), th))
	assert.Equal(t, 25.0, *ScoreROE(model.Float(3), th))
	assert.Equal(t, 50.0, *ScoreROE(model.Float(7), th))
	assert.Equal(t, 75.0, *ScoreROE(model.Float(12), th))
	assert.Equal(t, 100.0, *ScoreROE(model.Float(15), th))
}

func TestScoreRSIMomentum(t *testing.T) {
	th := midThresholds(t).RSIMomentum
	assert.Equal(t, 100.0, *ScoreRSIMomentum(model.Float(10), th))
	assert.Equal(t, 75.0, *ScoreRSIMomentum(model.Float(5), th))
	assert.Equal(t, 50.0, *ScoreRSIMomentum(model.Float(0), th))
	assert.Equal(t, 25.0, *ScoreRSIMomentum(model.Float(-3), th))
	assert.Equal(t, 0.0, *ScoreRSIMomentum(model.Float(-10), th))
}

func TestRSIMomentum(t *testing.T) {
	snap := &model.IndicatorSnapshot{RSI: model.Float(40), RSIShort: model.Float(46)}
	assert.Equal(t, 6.0, *RSIMomentum(snap))
	snap.RSIShort = nil
	assert.Nil(t, RSIMomentum(snap))
}

func TestScoreVolumeSurge(t *testing.T) {
	th := midThresholds(t).VolumeSurge
	assert.Equal(t, 100.0, *ScoreVolumeSurge(model.Float(2.5), th))
	assert.Equal(t, 75.0, *ScoreVolumeSurge(model.Float(1.5), th))
	assert.Equal(t, 50.0, *ScoreVolumeSurge(model.Float(1.2), th))
	assert.Equal(t, 25.0, *ScoreVolumeSurge(model.Float(0.8), th))
	assert.Equal(t, 0.0, *ScoreVolumeSurge(model.Float(0.3), th))

	th.ExtremeCap = 4
	assert.Equal(t, 100.0, *ScoreVolumeSurge(model.Float(3), th))
	assert.Equal(t, 50.0, *ScoreVolumeSurge(model.Float(4), th))
}

func TestVolumeRatio_ZeroBaseline(t *testing.T) {
	snap := &model.IndicatorSnapshot{AvgVolumeShort: model.Float(100), AvgVolumeLong: model.Float(0)}
	assert.Nil(t, VolumeRatio(snap))
	snap.AvgVolumeLong = model.Float(50)
	assert.Equal(t, 2.0, *VolumeRatio(snap))
}

func TestScoreTag(t *testing.T) {
	th := longThresholds(t).Tag
	fav := NewFavorableTags("ai", "semis", "defense", "infra", "power")

	assert.Nil(t, ScoreTag(nil, fav, th))
	assert.Nil(t, ScoreTag([]string{"ai"}, nil, th))
	assert.Equal(t, 0.0, *ScoreTag([]string{"retail"}, fav, th))
	assert.Equal(t, 50.0, *ScoreTag([]string{"ai", "semis", "ai"}, fav, th))
	assert.Equal(t, 100.0, *ScoreTag([]string{"ai", "semis", "defense", "infra", "power"}, fav, th))
}
