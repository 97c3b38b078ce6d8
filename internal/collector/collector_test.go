package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ValueSentinel/internal/model"
)

func rampBars(n int, start, step, volume float64) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		c := start + float64(i)*step
		bars[i] = model.OHLCV{Time: t0.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: volume}
	}
	return bars
}

func TestBuildSnapshots(t *testing.T) {
	at := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	stock := model.Stock{ID: "7203", Ticker: "7203", Market: "Prime", SectorCode: "3700", Tags: []string{"ev"}}
	daily := rampBars(300, 100, 1, 5000)
	weekly := rampBars(60, 100, 5, 20000)
	fd := &model.Fundamentals{
		StockID:   "7203",
		EPS:       model.Float(40),
		BPS:       model.Float(800),
		EPSGrowth: model.Float(12),
		ROE:       model.Float(9),
	}

	mid, long := BuildSnapshots(stock, daily, weekly, fd, at)

	assert.Equal(t, model.MidTerm, mid.Horizon)
	assert.Equal(t, model.LongTerm, long.Horizon)
	for _, s := range []model.IndicatorSnapshot{mid, long} {
		assert.Equal(t, "7203", s.StockID)
		assert.Equal(t, "3700", s.SectorCode)
		assert.Equal(t, at, s.CollectedAt)
		assert.Equal(t, []string{"ev"}, s.Tags)
		assert.Equal(t, 399.0, *s.CurrentPrice)
		assert.InDelta(t, 399.0/40, *s.PER, 1e-9)
		assert.InDelta(t, 399.0/800, *s.PBR, 1e-9)
		require.NotNil(t, s.RSI)
	}

	// strictly rising prices
	assert.InDelta(t, 100.0, *mid.RSI, 1e-6)
	assert.InDelta(t, 0.0, *mid.RSIShort-*mid.RSI, 1e-6)
	assert.Equal(t, 400.0, *mid.PriceHigh)
	assert.Equal(t, 399.0-126+1-1, *mid.PriceLow)
	assert.Equal(t, 399.0-252+1-1, *long.PriceLow)
	assert.Equal(t, 5000.0, *mid.AvgVolumeShort)
	assert.Equal(t, 5000.0, *mid.AvgVolumeLong)
	assert.Nil(t, mid.EPSGrowth)
	assert.Nil(t, mid.ROE)

	assert.Nil(t, long.RSIShort)
	assert.Nil(t, long.AvgVolumeShort)
	assert.Equal(t, 12.0, *long.EPSGrowth)
	assert.Equal(t, 9.0, *long.ROE)
}

func TestBuildSnapshots_MissingInputs(t *testing.T) {
	mid, long := BuildSnapshots(model.Stock{ID: "1"}, nil, nil, nil, time.Now())
	assert.Nil(t, mid.CurrentPrice)
	assert.Nil(t, mid.PER)
	assert.Nil(t, mid.RSI)
	assert.Nil(t, mid.PriceHigh)
	assert.Nil(t, long.RSI)
	assert.Nil(t, long.ROE)

	daily := rampBars(30, 50, 0, 100)
	mid, _ = BuildSnapshots(model.Stock{ID: "1"}, daily, nil, &model.Fundamentals{EPS: model.Float(0)}, time.Now())
	assert.Nil(t, mid.PER, "zero EPS has no multiple")
	assert.Nil(t, mid.PBR)
}

func TestCollector_SkipsFailedStocks(t *testing.T) {
	f := &MockFetcher{
		Price: 1000,
		Err:   map[string]error{"BAD": errors.New("boom")},
	}
	c := NewCollector(f, zerolog.Nop())
	stocks := []model.Stock{{ID: "1", Ticker: "GOOD"}, {ID: "2", Ticker: "BAD"}}

	snaps, err := c.Collect(context.Background(), stocks, nil, time.Now())
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "1", snaps[0].StockID)
	assert.Equal(t, model.MidTerm, snaps[0].Horizon)
	assert.Equal(t, model.LongTerm, snaps[1].Horizon)
}

func TestCollector_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewCollector(&MockFetcher{Price: 10}, zerolog.Nop())
	_, err := c.Collect(ctx, []model.Stock{{ID: "1", Ticker: "A"}}, nil, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}

const chartJSON = `{"chart":{"result":[{"timestamp":[1700000000,1700086400,1700172800],
"indicators":{"quote":[{"open":[10,null,12],"high":[11,null,13],"low":[9,null,11],"close":[10.5,null,12.5],"volume":[100,null,300]}]}}],"error":null}}`

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(chartJSON))
	}))
	defer srv.Close()

	f := NewYahooFetcher("", ".T")
	f.BaseURL = srv.URL

	bars, err := f.FetchDailyBars(context.Background(), "7203", 30)
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/7203.T", gotPath)
	require.Len(t, bars, 2, "null bars are skipped")
	assert.Equal(t, 10.5, bars[0].Close)
	assert.Equal(t, 300.0, bars[1].Volume)
}

func TestYahooFetcher_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewYahooFetcher("", "")
	f.BaseURL = srv.URL
	_, err := f.FetchWeeklyBars(context.Background(), "XXXX", 10)
	assert.Error(t, err)
}
