package collector

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"ValueSentinel/internal/calculator"
	"ValueSentinel/internal/model"
)

const (
	rsiPeriod      = 14
	rsiShortPeriod = 9
	volumeShort    = 5
	volumeLong     = 25

	dailyBarsNeeded  = 260
	weeklyBarsNeeded = 60
)

// Collector turns price history and fundamentals into indicator snapshots.
type Collector struct {
	fetcher Fetcher
	log     zerolog.Logger
}

func NewCollector(fetcher Fetcher, log zerolog.Logger) *Collector {
	return &Collector{
		fetcher: fetcher,
		log:     log.With().Str("component", "collector").Str("source", fetcher.Name()).Logger(),
	}
}

// Collect builds mid- and long-term snapshots for every stock. A stock whose
// price history cannot be fetched is logged and skipped; only a cancelled
// context fails the whole run.
func (c *Collector) Collect(ctx context.Context, stocks []model.Stock, fundamentals map[string]*model.Fundamentals, at time.Time) ([]model.IndicatorSnapshot, error) {
	out := make([]model.IndicatorSnapshot, 0, 2*len(stocks))
	skipped := 0
	for _, s := range stocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		daily, err := c.fetcher.FetchDailyBars(ctx, s.Ticker, dailyBarsNeeded)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.log.Warn().Err(err).Str("stock", s.ID).Msg("Daily bars unavailable, skipping")
			skipped++
			continue
		}
		weekly, err := c.fetcher.FetchWeeklyBars(ctx, s.Ticker, weeklyBarsNeeded)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.log.Warn().Err(err).Str("stock", s.ID).Msg("Weekly bars unavailable, long-term RSI missing")
			weekly = nil
		}
		mid, long := BuildSnapshots(s, daily, weekly, fundamentals[s.ID], at)
		out = append(out, mid, long)
	}
	c.log.Info().Int("stocks", len(stocks)).Int("skipped", skipped).Int("snapshots", len(out)).Msg("Collection complete")
	return out, nil
}

// BuildSnapshots derives both horizon snapshots of one stock. daily and
// weekly bars are oldest first; fd may be nil. Anything that cannot be
// computed stays nil.
func BuildSnapshots(s model.Stock, daily, weekly []model.OHLCV, fd *model.Fundamentals, at time.Time) (mid, long model.IndicatorSnapshot) {
	var price *float64
	if n := len(daily); n > 0 && daily[n-1].Close > 0 {
		p := daily[n-1].Close
		price = &p
	}

	var eps, bps *float64
	if fd != nil {
		eps, bps = fd.EPS, fd.BPS
	}
	per := priceMultiple(price, eps)
	pbr := priceMultiple(price, bps)

	base := model.IndicatorSnapshot{
		StockID:      s.ID,
		CollectedAt:  at,
		SectorCode:   s.SectorCode,
		CurrentPrice: price,
		PER:          per,
		PBR:          pbr,
		Tags:         append([]string(nil), s.Tags...),
	}

	mid = base
	mid.Horizon = model.MidTerm
	mid.RSI = calculator.CalculateRSI(daily, rsiPeriod)
	mid.RSIShort = calculator.CalculateRSI(daily, rsiShortPeriod)
	mid.PriceHigh, mid.PriceLow = calculator.PeriodRange(daily, model.MidTerm.PriceWindowDays())
	mid.AvgVolumeShort = calculator.AverageVolume(daily, volumeShort)
	mid.AvgVolumeLong = calculator.AverageVolume(daily, volumeLong)

	long = base
	long.Tags = append([]string(nil), s.Tags...)
	long.Horizon = model.LongTerm
	long.RSI = calculator.CalculateRSI(weekly, rsiPeriod)
	long.PriceHigh, long.PriceLow = calculator.PeriodRange(daily, model.LongTerm.PriceWindowDays())
	if fd != nil {
		long.EPSGrowth = fd.EPSGrowth
		long.ROE = fd.ROE
	}
	return mid, long
}

// priceMultiple is price / perShare, nil when either is missing or the
// per-share figure is zero. Negative multiples are kept.
func priceMultiple(price, perShare *float64) *float64 {
	if price == nil || perShare == nil || *perShare == 0 {
		return nil
	}
	v := *price / *perShare
	return &v
}
