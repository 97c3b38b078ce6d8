// Package universe loads the stock universe, fundamentals and the
// favorable-tag context from a YAML file into the store.
package universe

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"ValueSentinel/internal/model"
	"ValueSentinel/internal/store"
)

// File is the YAML shape of a universe file.
type File struct {
	Stocks        []Stock  `yaml:"stocks"`
	FavorableTags []string `yaml:"favorable_tags"`
}

// Stock is one listed company with its latest financial statements.
type Stock struct {
	ID        string    `yaml:"id"`
	Ticker    string    `yaml:"ticker"`
	Name      string    `yaml:"name"`
	Market    string    `yaml:"market"`
	Sector    string    `yaml:"sector"`
	Tags      []string  `yaml:"tags"`
	EPS       *float64  `yaml:"eps"`
	BPS       *float64  `yaml:"bps"`
	EPSGrowth *float64  `yaml:"eps_growth"`
	ROE       *float64  `yaml:"roe"`
	Equity    *float64  `yaml:"equity_ratio"`
	Profits   []float64 `yaml:"operating_profits"`
	CashFlows []float64 `yaml:"operating_cash_flows"`
}

// Load parses a universe file. Unknown keys are rejected.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read universe: %w", err)
	}
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse universe: %w", err)
	}
	seen := make(map[string]bool, len(f.Stocks))
	for i, s := range f.Stocks {
		if s.ID == "" {
			return nil, fmt.Errorf("stocks[%d]: id is required", i)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("stocks[%d]: duplicate id %s", i, s.ID)
		}
		seen[s.ID] = true
	}
	return &f, nil
}

// Apply writes the universe to st. Tickers default to the stock ID.
func (f *File) Apply(ctx context.Context, st store.Store, now time.Time) error {
	stocks := make([]model.Stock, 0, len(f.Stocks))
	funds := make([]model.Fundamentals, 0, len(f.Stocks))
	for _, s := range f.Stocks {
		ticker := s.Ticker
		if ticker == "" {
			ticker = s.ID
		}
		stocks = append(stocks, model.Stock{
			ID:         s.ID,
			Ticker:     ticker,
			Name:       s.Name,
			Market:     s.Market,
			SectorCode: s.Sector,
			Tags:       s.Tags,
		})
		funds = append(funds, model.Fundamentals{
			StockID:            s.ID,
			EPS:                s.EPS,
			BPS:                s.BPS,
			EPSGrowth:          s.EPSGrowth,
			ROE:                s.ROE,
			EquityRatio:        s.Equity,
			OperatingProfits:   s.Profits,
			OperatingCashFlows: s.CashFlows,
			UpdatedAt:          now,
		})
	}
	if err := st.UpsertStocks(ctx, stocks); err != nil {
		return fmt.Errorf("upsert stocks: %w", err)
	}
	if err := st.UpsertFundamentals(ctx, funds); err != nil {
		return fmt.Errorf("upsert fundamentals: %w", err)
	}
	if err := st.SetFavorableTags(ctx, f.FavorableTags); err != nil {
		return fmt.Errorf("set favorable tags: %w", err)
	}
	return nil
}
