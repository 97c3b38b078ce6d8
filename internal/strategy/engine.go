package strategy

import (
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ValueSentinel/internal/config"
	"ValueSentinel/internal/model"
	"ValueSentinel/internal/weight"
)

// Candidate is everything the engine needs to score one stock.
type Candidate struct {
	Market       model.MarketTier
	Snapshot     model.IndicatorSnapshot
	Sector       *model.SectorAverage // nil when the sector has no baseline
	Fundamentals *model.Fundamentals  // nil when unknown; never excludes
}

// Engine scores and ranks candidates against an immutable configuration.
// It is safe for concurrent use.
type Engine struct {
	cfg     *config.Scoring
	trap    *TrapFilter
	workers int
	log     zerolog.Logger
}

// NewEngine builds an engine. workers <= 0 uses GOMAXPROCS.
func NewEngine(cfg *config.Scoring, workers int, log zerolog.Logger) *Engine {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{
		cfg:     cfg,
		trap:    NewTrapFilter(cfg.Trap),
		workers: workers,
		log:     log.With().Str("component", "strategy_engine").Logger(),
	}
}

// Config returns the scoring configuration the engine was built with.
func (e *Engine) Config() *config.Scoring { return e.cfg }

// Trap runs the trap-stock filter on fd.
func (e *Engine) Trap(fd *model.Fundamentals) model.TrapVerdict {
	return e.trap.Check(fd)
}

// Score computes the value score of one candidate for the horizon its
// snapshot was collected for. It does not apply the trap filter.
func (e *Engine) Score(c Candidate, favorable FavorableTags) (model.ValueScore, error) {
	hc, err := e.cfg.Horizon(c.Snapshot.Horizon)
	if err != nil {
		return model.ValueScore{}, err
	}
	return e.score(hc, c, favorable), nil
}

func (e *Engine) score(hc *config.HorizonConfig, c Candidate, favorable FavorableTags) model.ValueScore {
	snap := &c.Snapshot
	bundle := hc.WeightsFor(c.Market)
	factors := factorsOf(bundle)

	roe := snap.ROE
	if roe == nil && c.Fundamentals != nil {
		roe = c.Fundamentals.ROE
	}
	subs := subScores(snap, c.Sector, roe, hc.Thresholds, factors, favorable)

	var sectorPER, sectorPBR *float64
	if c.Sector != nil {
		sectorPER, sectorPBR = c.Sector.PER, c.Sector.PBR
	}
	perRatio := SectorRatio(positive(snap.PER), sectorPER)
	pbrRatio := SectorRatio(positive(snap.PBR), sectorPBR)

	return model.ValueScore{
		StockID:   snap.StockID,
		Horizon:   hc.Horizon,
		Market:    c.Market,
		Total:     Aggregate(subs, bundle),
		SubScores: subs,
		Sector:    SectorScore(perRatio, pbrRatio, hc.Thresholds.Sector),
	}
}

// Rank filters trap stocks, scores the rest in parallel and orders them by
// total descending, ties broken by stock ID. Candidates whose every weighted
// factor is missing are reported as exclusions rather than ranked.
func (e *Engine) Rank(h model.Horizon, candidates []Candidate, favorable FavorableTags) ([]model.RankedStock, []model.Exclusion, error) {
	hc, err := e.cfg.Horizon(h)
	if err != nil {
		return nil, nil, err
	}
	for i := range candidates {
		if candidates[i].Snapshot.Horizon != h {
			return nil, nil, fmt.Errorf("%w: stock %s has %q, ranking %q",
				ErrHorizonMismatch, candidates[i].Snapshot.StockID, candidates[i].Snapshot.Horizon, h)
		}
	}

	start := time.Now()
	var exclusions []model.Exclusion
	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if v := e.trap.Check(c.Fundamentals); v.Excluded {
			exclusions = append(exclusions, model.Exclusion{StockID: c.Snapshot.StockID, Reasons: v.Reasons})
			continue
		}
		eligible = append(eligible, c)
	}

	scores := make([]model.ValueScore, len(eligible))
	var g errgroup.Group
	g.SetLimit(e.workers)
	for i := range eligible {
		i := i
		g.Go(func() error {
			scores[i] = e.score(hc, eligible[i], favorable)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	ranked := make([]model.RankedStock, 0, len(scores))
	for _, s := range scores {
		if s.Total == nil {
			exclusions = append(exclusions, model.Exclusion{StockID: s.StockID, Unscored: true})
			continue
		}
		ranked = append(ranked, model.RankedStock{ValueScore: s})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := *ranked[i].Total, *ranked[j].Total
		if a != b {
			return a > b
		}
		return ranked[i].StockID < ranked[j].StockID
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	e.log.Info().
		Str("horizon", string(h)).
		Int("candidates", len(candidates)).
		Int("ranked", len(ranked)).
		Int("excluded", len(exclusions)).
		Dur("elapsed", time.Since(start)).
		Msg("Ranking complete")
	return ranked, exclusions, nil
}

func factorsOf(b weight.Bundle) []model.Factor {
	entries := b.Entries()
	out := make([]model.Factor, len(entries))
	for i, e := range entries {
		out[i] = e.Factor
	}
	return out
}

func positive(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}
