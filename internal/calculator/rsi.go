package calculator

import (
	"math"

	"github.com/markcheno/go-talib"

	"ValueSentinel/internal/model"
)

// CalculateRSI computes the Wilder RSI over the given period from the bars'
// closes. Returns nil when fewer than period+1 bars are available.
func CalculateRSI(bars []model.OHLCV, period int) *float64 {
	if period <= 1 || len(bars) < period+1 {
		return nil
	}
	rsi := talib.Rsi(extractCloses(bars), period)
	if len(rsi) == 0 {
		return nil
	}
	last := rsi[len(rsi)-1]
	if math.IsNaN(last) {
		return nil
	}
	return &last
}
