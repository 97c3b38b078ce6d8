package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ValueSentinel/internal/model"
)

// MemoryStore is an in-process Store used when no database is configured and
// in tests.
type MemoryStore struct {
	mu        sync.RWMutex
	stocks    map[string]model.Stock
	funds     map[string]model.Fundamentals
	snapshots map[model.Horizon]map[string]model.IndicatorSnapshot
	sectors   map[model.Horizon]map[string]model.SectorAverage
	tags      []string
	runs      []*Run
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stocks:    make(map[string]model.Stock),
		funds:     make(map[string]model.Fundamentals),
		snapshots: make(map[model.Horizon]map[string]model.IndicatorSnapshot),
		sectors:   make(map[model.Horizon]map[string]model.SectorAverage),
	}
}

func (m *MemoryStore) UpsertStocks(_ context.Context, stocks []model.Stock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range stocks {
		m.stocks[s.ID] = s
	}
	return nil
}

func (m *MemoryStore) ListStocks(_ context.Context) ([]model.Stock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Stock, 0, len(m.stocks))
	for _, s := range m.stocks {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetStock(_ context.Context, id string) (model.Stock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.stocks[id]
	if !ok {
		return model.Stock{}, fmt.Errorf("stock %s: %w", id, ErrNotFound)
	}
	return s, nil
}

func (m *MemoryStore) UpsertFundamentals(_ context.Context, fds []model.Fundamentals) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range fds {
		m.funds[f.StockID] = f
	}
	return nil
}

func (m *MemoryStore) GetFundamentals(_ context.Context, stockID string) (*model.Fundamentals, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.funds[stockID]
	if !ok {
		return nil, fmt.Errorf("fundamentals %s: %w", stockID, ErrNotFound)
	}
	return &f, nil
}

func (m *MemoryStore) ListFundamentals(_ context.Context) (map[string]*model.Fundamentals, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*model.Fundamentals, len(m.funds))
	for id, f := range m.funds {
		f := f
		out[id] = &f
	}
	return out, nil
}

// SaveSnapshots keeps only the newest snapshot per stock and horizon.
func (m *MemoryStore) SaveSnapshots(_ context.Context, snaps []model.IndicatorSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range snaps {
		byStock, ok := m.snapshots[s.Horizon]
		if !ok {
			byStock = make(map[string]model.IndicatorSnapshot)
			m.snapshots[s.Horizon] = byStock
		}
		if cur, ok := byStock[s.StockID]; ok && cur.CollectedAt.After(s.CollectedAt) {
			continue
		}
		byStock[s.StockID] = s
	}
	return nil
}

func (m *MemoryStore) LatestSnapshots(_ context.Context, h model.Horizon) ([]model.IndicatorSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.IndicatorSnapshot, 0, len(m.snapshots[h]))
	for _, s := range m.snapshots[h] {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StockID < out[j].StockID })
	return out, nil
}

func (m *MemoryStore) LatestSnapshot(_ context.Context, stockID string, h model.Horizon) (*model.IndicatorSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snapshots[h][stockID]
	if !ok {
		return nil, fmt.Errorf("snapshot %s/%s: %w", stockID, h, ErrNotFound)
	}
	return &s, nil
}

func (m *MemoryStore) SaveSectorAverages(_ context.Context, avgs []model.SectorAverage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range avgs {
		bySector, ok := m.sectors[a.Horizon]
		if !ok {
			bySector = make(map[string]model.SectorAverage)
			m.sectors[a.Horizon] = bySector
		}
		if cur, ok := bySector[a.SectorCode]; ok && cur.CollectedAt.After(a.CollectedAt) {
			continue
		}
		bySector[a.SectorCode] = a
	}
	return nil
}

func (m *MemoryStore) LatestSectorAverages(_ context.Context, h model.Horizon) ([]model.SectorAverage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.SectorAverage, 0, len(m.sectors[h]))
	for _, a := range m.sectors[h] {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SectorCode < out[j].SectorCode })
	return out, nil
}

func (m *MemoryStore) SetFavorableTags(_ context.Context, tags []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags = append([]string(nil), tags...)
	sort.Strings(m.tags)
	return nil
}

func (m *MemoryStore) FavorableTags(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.tags...), nil
}

func (m *MemoryStore) SaveRun(_ context.Context, run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *run
	m.runs = append(m.runs, &cp)
	return nil
}

func (m *MemoryStore) LatestRun(_ context.Context, h model.Horizon) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *Run
	for _, r := range m.runs {
		if r.Horizon != h {
			continue
		}
		if latest == nil || !r.CreatedAt.Before(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("run for %s: %w", h, ErrNotFound)
	}
	cp := *latest
	return &cp, nil
}

func (m *MemoryStore) Close() error { return nil }
