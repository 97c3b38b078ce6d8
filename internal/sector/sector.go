// Package sector builds the per-sector averages that valuation scores are
// normalized against.
package sector

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"ValueSentinel/internal/model"
)

type key struct {
	code    string
	horizon model.Horizon
}

type samples struct {
	per, pbr, roe, eps []float64
	count              int
}

// Aggregate averages snapshots by sector and horizon. Only positive PER and
// PBR values enter the valuation averages; a sector without any usable value
// gets a nil average for that metric. Snapshots without a sector code are
// skipped. Output is sorted by sector code, then horizon.
func Aggregate(snaps []model.IndicatorSnapshot, collectedAt time.Time) []model.SectorAverage {
	groups := make(map[key]*samples)
	for i := range snaps {
		s := &snaps[i]
		if s.SectorCode == "" {
			continue
		}
		k := key{s.SectorCode, s.Horizon}
		g, ok := groups[k]
		if !ok {
			g = &samples{}
			groups[k] = g
		}
		g.count++
		if s.PER != nil && *s.PER > 0 {
			g.per = append(g.per, *s.PER)
		}
		if s.PBR != nil && *s.PBR > 0 {
			g.pbr = append(g.pbr, *s.PBR)
		}
		if s.ROE != nil {
			g.roe = append(g.roe, *s.ROE)
		}
		if s.EPSGrowth != nil {
			g.eps = append(g.eps, *s.EPSGrowth)
		}
	}

	out := make([]model.SectorAverage, 0, len(groups))
	for k, g := range groups {
		out = append(out, model.SectorAverage{
			SectorCode:  k.code,
			Horizon:     k.horizon,
			CollectedAt: collectedAt,
			PER:         mean(g.per),
			PBR:         mean(g.pbr),
			ROE:         mean(g.roe),
			EPSGrowth:   mean(g.eps),
			StockCount:  g.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SectorCode != out[j].SectorCode {
			return out[i].SectorCode < out[j].SectorCode
		}
		return out[i].Horizon < out[j].Horizon
	})
	return out
}

func mean(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	m := stat.Mean(xs, nil)
	return &m
}

// Index looks sector averages up by sector code and horizon.
type Index struct {
	m map[key]*model.SectorAverage
}

func NewIndex(avgs []model.SectorAverage) *Index {
	ix := &Index{m: make(map[key]*model.SectorAverage, len(avgs))}
	for i := range avgs {
		a := avgs[i]
		ix.m[key{a.SectorCode, a.Horizon}] = &a
	}
	return ix
}

// Lookup returns the average of code for h, nil when unknown.
func (ix *Index) Lookup(code string, h model.Horizon) *model.SectorAverage {
	if ix == nil {
		return nil
	}
	return ix.m[key{code, h}]
}

// Len is the number of indexed averages.
func (ix *Index) Len() int { return len(ix.m) }
