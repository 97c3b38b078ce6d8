package strategy

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ValueSentinel/internal/config"
	"ValueSentinel/internal/model"
)

func newTestEngine() *Engine {
	return NewEngine(config.DefaultScoring(), 4, zerolog.Nop())
}

// cheapCandidate is priced well below its sector, oversold and near its low.
func cheapCandidate(id string) Candidate {
	return Candidate{
		Market: model.TierPrime,
		Snapshot: model.IndicatorSnapshot{
			StockID:      id,
			Horizon:      model.LongTerm,
			SectorCode:   "3050",
			CurrentPrice: model.Float(115),
			PER:          model.Float(10),
			PBR:          model.Float(0.8),
			RSI:          model.Float(25),
			PriceHigh:    model.Float(200),
			PriceLow:     model.Float(100),
		},
		Sector: &model.SectorAverage{SectorCode: "3050", Horizon: model.LongTerm, PER: model.Float(15), PBR: model.Float(1.0)},
	}
}

func TestEngine_Score_LongTermPrime(t *testing.T) {
	vs, err := newTestEngine().Score(cheapCandidate("7203"), nil)
	require.NoError(t, err)

	assert.Equal(t, 100.0, *vs.SubScores.PER)
	assert.Equal(t, 75.0, *vs.SubScores.PBR)
	assert.Equal(t, 100.0, *vs.SubScores.RSI)
	assert.Equal(t, 100.0, *vs.SubScores.PriceRange)
	assert.Nil(t, vs.SubScores.EPSGrowth)
	assert.Nil(t, vs.SubScores.ROE)
	assert.Nil(t, vs.SubScores.TagScore)

	require.NotNil(t, vs.Total)
	assert.InDelta(t, (100*22+75*18+100*10+100*10)/60.0, *vs.Total, 1e-9)
	assert.Equal(t, model.LongTerm, vs.Horizon)
	assert.Equal(t, model.TierPrime, vs.Market)
	require.NotNil(t, vs.Sector)
}

func TestEngine_Score_MidTermUsesMomentumAndVolume(t *testing.T) {
	c := cheapCandidate("6758")
	c.Snapshot.Horizon = model.MidTerm
	c.Snapshot.RSIShort = model.Float(35)
	c.Snapshot.AvgVolumeShort = model.Float(3000)
	c.Snapshot.AvgVolumeLong = model.Float(1000)
	c.Snapshot.EPSGrowth = model.Float(40)

	vs, err := newTestEngine().Score(c, nil)
	require.NoError(t, err)
	assert.Equal(t, 100.0, *vs.SubScores.RSIMomentum)
	assert.Equal(t, 100.0, *vs.SubScores.VolumeSurge)
	assert.Nil(t, vs.SubScores.EPSGrowth, "eps growth is not a mid-term factor")
}

func TestEngine_Score_PBRPenaltyFallsBackToFundamentalsROE(t *testing.T) {
	c := cheapCandidate("8001")
	c.Snapshot.PBR = model.Float(0.2)
	c.Fundamentals = &model.Fundamentals{ROE: model.Float(3)}

	vs, err := newTestEngine().Score(c, nil)
	require.NoError(t, err)
	assert.Equal(t, 50.0, *vs.SubScores.PBR)
}

func TestEngine_Score_UnknownHorizon(t *testing.T) {
	c := cheapCandidate("1")
	c.Snapshot.Horizon = "weekly"
	_, err := newTestEngine().Score(c, nil)
	assert.ErrorIs(t, err, model.ErrUnknownHorizon)
}

func TestEngine_Rank_OrdersAndBreaksTies(t *testing.T) {
	weak := cheapCandidate("9999")
	weak.Snapshot.RSI = model.Float(80)

	cands := []Candidate{cheapCandidate("B"), weak, cheapCandidate("A")}
	ranked, excl, err := newTestEngine().Rank(model.LongTerm, cands, nil)
	require.NoError(t, err)
	assert.Empty(t, excl)
	require.Len(t, ranked, 3)

	assert.Equal(t, "A", ranked[0].StockID)
	assert.Equal(t, "B", ranked[1].StockID)
	assert.Equal(t, "9999", ranked[2].StockID)
	for i, r := range ranked {
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestEngine_Rank_TrapStockExcludedDespitePerfectScore(t *testing.T) {
	c := cheapCandidate("TRAP")
	c.Snapshot.PBR = model.Float(0.5)
	c.Fundamentals = &model.Fundamentals{EquityRatio: model.Float(10)}

	vs, err := newTestEngine().Score(c, nil)
	require.NoError(t, err)
	assert.Equal(t, 100.0, *vs.Total)

	ranked, excl, err := newTestEngine().Rank(model.LongTerm, []Candidate{c}, nil)
	require.NoError(t, err)
	assert.Empty(t, ranked)
	require.Len(t, excl, 1)
	assert.Equal(t, "TRAP", excl[0].StockID)
	assert.Equal(t, []model.TrapReason{model.TrapLowEquityRatio}, excl[0].Reasons)
}

func TestEngine_Rank_UnscoredCandidate(t *testing.T) {
	empty := Candidate{Market: model.TierGrowth, Snapshot: model.IndicatorSnapshot{StockID: "X", Horizon: model.LongTerm}}
	ranked, excl, err := newTestEngine().Rank(model.LongTerm, []Candidate{empty, cheapCandidate("Y")}, nil)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "Y", ranked[0].StockID)
	assert.Equal(t, []model.Exclusion{{StockID: "X", Unscored: true}}, excl)
}

func TestEngine_Rank_HorizonMismatch(t *testing.T) {
	c := cheapCandidate("1")
	_, _, err := newTestEngine().Rank(model.MidTerm, []Candidate{c}, nil)
	assert.ErrorIs(t, err, ErrHorizonMismatch)
}

func TestEngine_Rank_Idempotent(t *testing.T) {
	e := newTestEngine()
	fav := NewFavorableTags("ai")
	var cands []Candidate
	for i := 0; i < 50; i++ {
		c := cheapCandidate(fmt.Sprintf("%04d", i))
		c.Snapshot.RSI = model.Float(float64(20 + i))
		c.Snapshot.Tags = []string{"ai"}
		if i%7 == 0 {
			c.Sector = nil
		}
		cands = append(cands, c)
	}

	first, _, err := e.Rank(model.LongTerm, cands, fav)
	require.NoError(t, err)
	second, _, err := e.Rank(model.LongTerm, cands, fav)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("ranking changed between runs (-first +second):\n%s", diff)
	}
}
