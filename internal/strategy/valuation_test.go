package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ValueSentinel/internal/model"
)

func TestSectorRatio(t *testing.T) {
	assert.Equal(t, 100.0, *SectorRatio(model.Float(12), model.Float(12)))
	assert.Equal(t, 50.0, *SectorRatio(model.Float(6), model.Float(12)))
	assert.Nil(t, SectorRatio(model.Float(12), model.Float(0)))
	assert.Nil(t, SectorRatio(nil, model.Float(12)))
	assert.Nil(t, SectorRatio(model.Float(12), nil))
}

func TestScorePER(t *testing.T) {
	th := longThresholds(t).PER
	sector := model.Float(20)

	assert.Equal(t, 100.0, *ScorePER(model.Float(14), sector, th))
	assert.Equal(t, 75.0, *ScorePER(model.Float(18), sector, th))
	assert.Equal(t, 50.0, *ScorePER(model.Float(22), sector, th))
	assert.Equal(t, 25.0, *ScorePER(model.Float(26), sector, th))
	assert.Equal(t, 0.0, *ScorePER(model.Float(30), sector, th))
	assert.Equal(t, 0.0, *ScorePER(model.Float(-5), sector, th))
	assert.Nil(t, ScorePER(model.Float(10), model.Float(0), th))
	assert.Nil(t, ScorePER(model.Float(10), nil, th))
}

func TestScorePER_NeverIncreasesWithRatio(t *testing.T) {
	th := longThresholds(t).PER
	prev := 101.0
	for per := 1.0; per <= 60; per += 0.25 {
		got := *ScorePER(model.Float(per), model.Float(20), th)
		assert.LessOrEqual(t, got, prev, "per=%v", per)
		prev = got
	}
}

func TestScorePBR_LowROEPenalty(t *testing.T) {
	th := longThresholds(t)
	sector := model.Float(1.0)

	healthy := ScorePBR(model.Float(0.2), sector, model.Float(12), th.PBR, th.PBRPenalty)
	weak := ScorePBR(model.Float(0.2), sector, model.Float(3), th.PBR, th.PBRPenalty)
	assert.Equal(t, 100.0, *healthy)
	assert.Equal(t, 50.0, *weak)
	assert.Less(t, *weak, *healthy)

	// low but not severely low
	assert.Equal(t, 56.25, *ScorePBR(model.Float(0.8), sector, model.Float(3), th.PBR, th.PBRPenalty))
	// unknown ROE leaves the score alone
	assert.Equal(t, 100.0, *ScorePBR(model.Float(0.2), sector, nil, th.PBR, th.PBRPenalty))
}

func TestSectorScore(t *testing.T) {
	th := longThresholds(t).Sector
	assert.Equal(t, 50.0, *SectorScore(model.Float(100), model.Float(100), th))
	assert.Equal(t, 100.0, *SectorScore(model.Float(40), nil, th))
	assert.Equal(t, 0.0, *SectorScore(nil, model.Float(200), th))
	assert.Equal(t, 75.0, *SectorScore(model.Float(50), model.Float(100), th))
	assert.Nil(t, SectorScore(nil, nil, th))
}
