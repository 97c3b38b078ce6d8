package calculator

import (
	"math"

	"ValueSentinel/internal/model"
)

// PeriodRange scans the most recent days bars and returns the high and low.
// Returns nil, nil when there are no bars.
func PeriodRange(bars []model.OHLCV, days int) (high, low *float64) {
	if len(bars) == 0 || days <= 0 {
		return nil, nil
	}
	n := len(bars)
	start := n - days
	if start < 0 {
		start = 0
	}
	h := math.Inf(-1)
	l := math.Inf(1)
	for i := start; i < n; i++ {
		if bars[i].High > h {
			h = bars[i].High
		}
		if bars[i].Low < l {
			l = bars[i].Low
		}
	}
	return &h, &l
}

// RangePosition returns where current sits within [low, high] as a percentile
// in 0..100. A degenerate or inverted window has no position and returns nil.
func RangePosition(current, high, low *float64) *float64 {
	if current == nil || high == nil || low == nil || *high <= *low {
		return nil
	}
	pos := (*current - *low) * 100 / (*high - *low)
	if pos < 0 {
		pos = 0
	}
	if pos > 100 {
		pos = 100
	}
	return &pos
}
