package model

import "time"

// IndicatorSnapshot is the raw market and financial data of one stock for one
// horizon at one collection date. Missing values are nil.
type IndicatorSnapshot struct {
	StockID        string
	Horizon        Horizon
	CollectedAt    time.Time
	SectorCode     string
	CurrentPrice   *float64
	PER            *float64
	PBR            *float64
	RSI            *float64
	RSIShort       *float64 // mid-term only
	PriceHigh      *float64
	PriceLow       *float64
	AvgVolumeShort *float64 // mid-term only
	AvgVolumeLong  *float64 // mid-term only
	EPSGrowth      *float64 // long-term only, percent
	ROE            *float64 // long-term only, percent
	Tags           []string
}

// SectorAverage is the normalization baseline of one sector.
type SectorAverage struct {
	SectorCode  string
	Horizon     Horizon
	CollectedAt time.Time
	PER         *float64
	PBR         *float64
	ROE         *float64
	EPSGrowth   *float64
	StockCount  int
}

// Fundamentals holds the financial-statement data used to build snapshots and
// to gate trap stocks. Period series are chronological, oldest first.
type Fundamentals struct {
	StockID            string
	EPS                *float64
	BPS                *float64
	EPSGrowth          *float64
	ROE                *float64
	EquityRatio        *float64 // percent
	OperatingProfits   []float64
	OperatingCashFlows []float64
	UpdatedAt          time.Time
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
