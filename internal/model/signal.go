package model

// Factor names a weighted scoring factor.
type Factor string

const (
	FactorPER         Factor = "per"
	FactorPBR         Factor = "pbr"
	FactorRSI         Factor = "rsi"
	FactorPriceRange  Factor = "price_range"
	FactorEPSGrowth   Factor = "eps_growth"
	FactorTagScore    Factor = "tag_score"
	FactorROE         Factor = "roe"
	FactorRSIMomentum Factor = "rsi_momentum"
	FactorVolumeSurge Factor = "volume_surge"
)

// SubScores holds one sub-score per factor on a 0-100 scale. Nil means unknown.
type SubScores struct {
	PER         *float64
	PBR         *float64
	RSI         *float64
	PriceRange  *float64
	EPSGrowth   *float64
	TagScore    *float64
	ROE         *float64
	RSIMomentum *float64
	VolumeSurge *float64
}

// Get returns the sub-score for f, nil when unknown or not a factor.
func (s SubScores) Get(f Factor) *float64 {
	switch f {
	case FactorPER:
		return s.PER
	case FactorPBR:
		return s.PBR
	case FactorRSI:
		return s.RSI
	case FactorPriceRange:
		return s.PriceRange
	case FactorEPSGrowth:
		return s.EPSGrowth
	case FactorTagScore:
		return s.TagScore
	case FactorROE:
		return s.ROE
	case FactorRSIMomentum:
		return s.RSIMomentum
	case FactorVolumeSurge:
		return s.VolumeSurge
	}
	return nil
}

// ValueScore is the result of one scoring pass for one stock.
type ValueScore struct {
	StockID   string
	Horizon   Horizon
	Market    MarketTier
	Total     *float64 // 0-100, nil when every weighted factor is missing
	SubScores SubScores
	Sector    *float64 // continuous 0-100 sector-relative score
}

// RankedStock is one row of a ranking.
type RankedStock struct {
	Rank int
	ValueScore
}

// TrapReason explains why a stock failed the financial-health gate.
type TrapReason string

const (
	TrapLowEquityRatio         TrapReason = "low_equity_ratio"
	TrapOperatingProfitDecline TrapReason = "operating_profit_decline"
	TrapNegativeCashFlow       TrapReason = "negative_operating_cash_flow"
)

// TrapVerdict is the outcome of the trap-stock filter.
type TrapVerdict struct {
	Excluded bool
	Reasons  []TrapReason
}

// Exclusion records a stock that did not make it into a ranking.
type Exclusion struct {
	StockID string
	// Reasons is set when the trap filter rejected the stock.
	Reasons []TrapReason
	// Unscored is set when every weighted factor was missing.
	Unscored bool
}
