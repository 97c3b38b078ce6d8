// Package store persists the ranking universe, collected indicator data and
// ranking results.
package store

import (
	"context"
	"errors"
	"time"

	"ValueSentinel/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Run is one recorded ranking pass.
type Run struct {
	ID         string
	Horizon    model.Horizon
	CreatedAt  time.Time
	Ranked     []model.RankedStock
	Exclusions []model.Exclusion
}

// Store is the persistence boundary of the application.
type Store interface {
	UpsertStocks(ctx context.Context, stocks []model.Stock) error
	ListStocks(ctx context.Context) ([]model.Stock, error)
	GetStock(ctx context.Context, id string) (model.Stock, error)

	UpsertFundamentals(ctx context.Context, fds []model.Fundamentals) error
	GetFundamentals(ctx context.Context, stockID string) (*model.Fundamentals, error)
	ListFundamentals(ctx context.Context) (map[string]*model.Fundamentals, error)

	SaveSnapshots(ctx context.Context, snaps []model.IndicatorSnapshot) error
	// LatestSnapshots returns the most recent snapshot of every stock for h.
	LatestSnapshots(ctx context.Context, h model.Horizon) ([]model.IndicatorSnapshot, error)
	LatestSnapshot(ctx context.Context, stockID string, h model.Horizon) (*model.IndicatorSnapshot, error)

	SaveSectorAverages(ctx context.Context, avgs []model.SectorAverage) error
	// LatestSectorAverages returns the most recent average of every sector for h.
	LatestSectorAverages(ctx context.Context, h model.Horizon) ([]model.SectorAverage, error)

	SetFavorableTags(ctx context.Context, tags []string) error
	FavorableTags(ctx context.Context) ([]string, error)

	SaveRun(ctx context.Context, run *Run) error
	LatestRun(ctx context.Context, h model.Horizon) (*Run, error)

	Close() error
}
