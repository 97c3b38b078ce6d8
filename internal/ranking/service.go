// Package ranking runs collection and ranking passes against the store.
package ranking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ValueSentinel/internal/collector"
	"ValueSentinel/internal/model"
	"ValueSentinel/internal/sector"
	"ValueSentinel/internal/store"
	"ValueSentinel/internal/strategy"
)

// Service orchestrates data refresh and ranking runs.
type Service struct {
	store     store.Store
	engine    *strategy.Engine
	collector *collector.Collector
	now       func() time.Time
	log       zerolog.Logger
}

// NewService wires a service. col may be nil when only ranking is needed.
func NewService(st store.Store, engine *strategy.Engine, col *collector.Collector, log zerolog.Logger) *Service {
	return &Service{
		store:     st,
		engine:    engine,
		collector: col,
		now:       time.Now,
		log:       log.With().Str("component", "ranking").Logger(),
	}
}

// Refresh collects fresh snapshots for every stock in the universe and
// recomputes the sector averages from them.
func (s *Service) Refresh(ctx context.Context) error {
	if s.collector == nil {
		return fmt.Errorf("refresh: no collector configured")
	}
	stocks, err := s.store.ListStocks(ctx)
	if err != nil {
		return fmt.Errorf("list stocks: %w", err)
	}
	funds, err := s.store.ListFundamentals(ctx)
	if err != nil {
		return fmt.Errorf("list fundamentals: %w", err)
	}

	at := s.now().UTC().Truncate(time.Second)
	snaps, err := s.collector.Collect(ctx, stocks, funds, at)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}
	if err := s.store.SaveSnapshots(ctx, snaps); err != nil {
		return fmt.Errorf("save snapshots: %w", err)
	}

	avgs := sector.Aggregate(snaps, at)
	if err := s.store.SaveSectorAverages(ctx, avgs); err != nil {
		return fmt.Errorf("save sector averages: %w", err)
	}
	s.log.Info().Int("snapshots", len(snaps)).Int("sectors", len(avgs)).Msg("Refresh complete")
	return nil
}

// Run ranks the latest snapshots of horizon h and records the result.
func (s *Service) Run(ctx context.Context, h model.Horizon) (*store.Run, error) {
	in, err := s.load(ctx, h)
	if err != nil {
		return nil, err
	}

	candidates := make([]strategy.Candidate, 0, len(in.snaps))
	for _, snap := range in.snaps {
		candidates = append(candidates, in.candidate(snap))
	}

	ranked, exclusions, err := s.engine.Rank(h, candidates, in.favorable)
	if err != nil {
		return nil, fmt.Errorf("rank %s: %w", h, err)
	}

	run := &store.Run{
		ID:         uuid.NewString(),
		Horizon:    h,
		CreatedAt:  s.now().UTC().Truncate(time.Second),
		Ranked:     ranked,
		Exclusions: exclusions,
	}
	if err := s.store.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}

	s.log.Info().
		Str("run_id", run.ID).
		Str("horizon", string(h)).
		Int("ranked", len(ranked)).
		Int("excluded", len(exclusions)).
		Msg("Ranking run recorded")
	return run, nil
}

// Analysis is the full scoring breakdown of a single stock.
type Analysis struct {
	Stock    model.Stock
	Snapshot model.IndicatorSnapshot
	Sector   *model.SectorAverage
	Score    model.ValueScore
	Trap     model.TrapVerdict
	PERRatio *float64 // PER as % of the sector average
	PBRRatio *float64
}

// Analyze scores one stock from its latest snapshot without recording a run.
func (s *Service) Analyze(ctx context.Context, stockID string, h model.Horizon) (*Analysis, error) {
	stock, err := s.store.GetStock(ctx, stockID)
	if err != nil {
		return nil, err
	}
	snap, err := s.store.LatestSnapshot(ctx, stockID, h)
	if err != nil {
		return nil, err
	}
	avgs, err := s.store.LatestSectorAverages(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("sector averages: %w", err)
	}
	fd, err := s.store.GetFundamentals(ctx, stockID)
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("fundamentals: %w", err)
	}
	tags, err := s.store.FavorableTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("favorable tags: %w", err)
	}

	c := strategy.Candidate{
		Market:       stock.Tier(),
		Snapshot:     *snap,
		Sector:       sector.NewIndex(avgs).Lookup(snap.SectorCode, h),
		Fundamentals: fd,
	}
	vs, err := s.engine.Score(c, strategy.NewFavorableTags(tags...))
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		Stock:    stock,
		Snapshot: *snap,
		Sector:   c.Sector,
		Score:    vs,
		Trap:     s.engine.Trap(fd),
	}
	if c.Sector != nil {
		a.PERRatio = strategy.SectorRatio(snap.PER, c.Sector.PER)
		a.PBRRatio = strategy.SectorRatio(snap.PBR, c.Sector.PBR)
	}
	return a, nil
}

// Latest returns the most recently recorded run of h.
func (s *Service) Latest(ctx context.Context, h model.Horizon) (*store.Run, error) {
	return s.store.LatestRun(ctx, h)
}
