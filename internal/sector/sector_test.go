package sector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ValueSentinel/internal/model"
)

func snap(id, sector string, h model.Horizon, per, pbr *float64) model.IndicatorSnapshot {
	return model.IndicatorSnapshot{StockID: id, SectorCode: sector, Horizon: h, PER: per, PBR: pbr}
}

func TestAggregate(t *testing.T) {
	at := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	f := model.Float
	snaps := []model.IndicatorSnapshot{
		snap("1", "3050", model.LongTerm, f(10), f(1.0)),
		snap("2", "3050", model.LongTerm, f(20), f(2.0)),
		snap("3", "3050", model.LongTerm, f(-8), nil), // loss-making, excluded from PER mean
		snap("4", "3650", model.LongTerm, nil, nil),
		snap("5", "3050", model.MidTerm, f(30), f(3.0)),
		snap("6", "", model.LongTerm, f(5), f(5)),
	}
	snaps[0].ROE = f(8)
	snaps[1].ROE = f(12)

	got := Aggregate(snaps, at)
	require.Len(t, got, 3)

	assert.Equal(t, "3050", got[0].SectorCode)
	assert.Equal(t, model.LongTerm, got[0].Horizon)
	assert.Equal(t, 3, got[0].StockCount)
	assert.InDelta(t, 15.0, *got[0].PER, 1e-9)
	assert.InDelta(t, 1.5, *got[0].PBR, 1e-9)
	assert.InDelta(t, 10.0, *got[0].ROE, 1e-9)
	assert.Nil(t, got[0].EPSGrowth)
	assert.Equal(t, at, got[0].CollectedAt)

	assert.Equal(t, model.MidTerm, got[1].Horizon)
	assert.InDelta(t, 30.0, *got[1].PER, 1e-9)

	assert.Equal(t, "3650", got[2].SectorCode)
	assert.Nil(t, got[2].PER)
	assert.Nil(t, got[2].PBR)
}

func TestIndex(t *testing.T) {
	ix := NewIndex([]model.SectorAverage{
		{SectorCode: "3050", Horizon: model.LongTerm, PER: model.Float(15)},
		{SectorCode: "3050", Horizon: model.MidTerm, PER: model.Float(18)},
	})
	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, 15.0, *ix.Lookup("3050", model.LongTerm).PER)
	assert.Equal(t, 18.0, *ix.Lookup("3050", model.MidTerm).PER)
	assert.Nil(t, ix.Lookup("9999", model.LongTerm))

	var empty *Index
	assert.Nil(t, empty.Lookup("3050", model.LongTerm))
}
