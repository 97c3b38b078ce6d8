package collector

import (
	"context"
	"time"

	"ValueSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Tickers without explicit bars get a gentle synthetic trend around Price.
type MockFetcher struct {
	Price  float64
	Daily  map[string][]model.OHLCV
	Weekly map[string][]model.OHLCV
	Err    map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, ticker string, days int) ([]model.OHLCV, error) {
	if err := m.Err[ticker]; err != nil {
		return nil, err
	}
	if bars, ok := m.Daily[ticker]; ok {
		return bars, nil
	}
	return generateMockBars(m.Price, days, 24*time.Hour), nil
}

func (m *MockFetcher) FetchWeeklyBars(_ context.Context, ticker string, weeks int) ([]model.OHLCV, error) {
	if err := m.Err[ticker]; err != nil {
		return nil, err
	}
	if bars, ok := m.Weekly[ticker]; ok {
		return bars, nil
	}
	return generateMockBars(m.Price, weeks, 7*24*time.Hour), nil
}

func generateMockBars(basePrice float64, count int, step time.Duration) []model.OHLCV {
	if basePrice <= 0 {
		basePrice = 1000
	}
	end := time.Now().Truncate(24 * time.Hour)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   end.Add(-time.Duration(count-i) * step),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
