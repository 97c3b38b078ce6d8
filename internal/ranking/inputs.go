package ranking

import (
	"context"
	"errors"
	"fmt"

	"ValueSentinel/internal/model"
	"ValueSentinel/internal/sector"
	"ValueSentinel/internal/store"
	"ValueSentinel/internal/strategy"
)

// inputs is everything one ranking run reads from the store.
type inputs struct {
	snaps     []model.IndicatorSnapshot
	stocks    map[string]model.Stock
	sectors   *sector.Index
	funds     map[string]*model.Fundamentals
	favorable strategy.FavorableTags
}

func (s *Service) load(ctx context.Context, h model.Horizon) (*inputs, error) {
	snaps, err := s.store.LatestSnapshots(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("latest snapshots: %w", err)
	}
	stocks, err := s.store.ListStocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	avgs, err := s.store.LatestSectorAverages(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("sector averages: %w", err)
	}
	funds, err := s.store.ListFundamentals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fundamentals: %w", err)
	}
	tags, err := s.store.FavorableTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("favorable tags: %w", err)
	}

	byID := make(map[string]model.Stock, len(stocks))
	for _, st := range stocks {
		byID[st.ID] = st
	}
	return &inputs{
		snaps:     snaps,
		stocks:    byID,
		sectors:   sector.NewIndex(avgs),
		funds:     funds,
		favorable: strategy.NewFavorableTags(tags...),
	}, nil
}

// candidate assembles the engine input of one snapshot. Stocks missing from
// the universe fall into the other tier.
func (in *inputs) candidate(snap model.IndicatorSnapshot) strategy.Candidate {
	return strategy.Candidate{
		Market:       in.stocks[snap.StockID].Tier(),
		Snapshot:     snap,
		Sector:       in.sectors.Lookup(snap.SectorCode, snap.Horizon),
		Fundamentals: in.funds[snap.StockID],
	}
}

func isNotFound(err error) bool { return errors.Is(err, store.ErrNotFound) }
