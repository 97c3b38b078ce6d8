package model

import (
	"fmt"
	"strings"
	"time"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Stock is a listed company in the ranking universe.
type Stock struct {
	ID         string
	Ticker     string
	Name       string
	Market     string // raw market label as supplied by the listing source
	SectorCode string
	Tags       []string
}

// Tier returns the stock's market tier.
func (s Stock) Tier() MarketTier { return ParseMarketTier(s.Market) }

// MarketTier segments weight bundles by listing market.
type MarketTier string

const (
	TierPrime    MarketTier = "prime"
	TierStandard MarketTier = "standard"
	TierGrowth   MarketTier = "growth"
	TierOther    MarketTier = "other"
)

// Tiers lists every market tier, fallback last.
var Tiers = []MarketTier{TierPrime, TierStandard, TierGrowth, TierOther}

// ParseMarketTier maps a market label to its tier. Unrecognised labels map to TierOther.
func ParseMarketTier(s string) MarketTier {
	switch MarketTier(strings.ToLower(strings.TrimSpace(s))) {
	case TierPrime:
		return TierPrime
	case TierStandard:
		return TierStandard
	case TierGrowth:
		return TierGrowth
	default:
		return TierOther
	}
}

// Horizon selects the holding period a ranking is computed for.
type Horizon string

const (
	MidTerm  Horizon = "mid_term"
	LongTerm Horizon = "long_term"
)

// Horizons lists every supported horizon.
var Horizons = []Horizon{MidTerm, LongTerm}

// ParseHorizon returns ErrUnknownHorizon for anything but mid_term and long_term.
func ParseHorizon(s string) (Horizon, error) {
	switch Horizon(strings.TrimSpace(s)) {
	case MidTerm:
		return MidTerm, nil
	case LongTerm:
		return LongTerm, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownHorizon, s)
	}
}

// PriceWindowDays is the trading-day lookback of the price-range window.
func (h Horizon) PriceWindowDays() int {
	if h == MidTerm {
		return 126 // 26 weeks
	}
	return 252 // 52 weeks
}
