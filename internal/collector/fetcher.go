package collector

import (
	"context"

	"ValueSentinel/internal/model"
)

// Fetcher defines the interface for fetching price history. Bars are returned
// oldest first.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, ticker string, days int) ([]model.OHLCV, error)
	FetchWeeklyBars(ctx context.Context, ticker string, weeks int) ([]model.OHLCV, error)
	Name() string
}
