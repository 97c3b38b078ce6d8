// Package report renders rankings and single-stock analyses as plain text.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ValueSentinel/internal/model"
	"ValueSentinel/internal/ranking"
	"ValueSentinel/internal/store"
	"ValueSentinel/internal/weight"
)

var factorLabels = map[model.Factor]string{
	model.FactorPER:         "PER",
	model.FactorPBR:         "PBR",
	model.FactorRSI:         "RSI",
	model.FactorPriceRange:  "Range",
	model.FactorEPSGrowth:   "EPS",
	model.FactorTagScore:    "Tag",
	model.FactorROE:         "ROE",
	model.FactorRSIMomentum: "Mom",
	model.FactorVolumeSurge: "Vol",
}

// Num rounds v for display; nil renders as "-".
func Num(v *float64, places int32) string {
	if v == nil {
		return "-"
	}
	return decimal.NewFromFloat(*v).Round(places).StringFixed(places)
}

// Ratio renders a metric with its sector ratio, e.g. "PER: 12.3 (82%)".
func Ratio(label string, value, ratio *float64, places int32) string {
	return fmt.Sprintf("%s: %s (%s%%)", label, Num(value, places), Num(ratio, 0))
}

// FormatRanking formats the top entries of a run. top <= 0 shows all.
func FormatRanking(run *store.Run, top int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("ValueSentinel ranking | %s | %s\n", run.Horizon, run.CreatedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("run %s\n\n", run.ID))

	factors, err := weight.FactorsFor(run.Horizon)
	if err != nil {
		b.WriteString(err.Error())
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%4s  %-8s %-8s %6s  %6s", "#", "Stock", "Market", "Total", "Sector"))
	for _, f := range factors {
		b.WriteString(fmt.Sprintf(" %6s", factorLabels[f]))
	}
	b.WriteString("\n")

	rows := run.Ranked
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%4d  %-8s %-8s %6s  %6s", r.Rank, r.StockID, r.Market, Num(r.Total, 1), Num(r.Sector, 0)))
		for _, f := range factors {
			b.WriteString(fmt.Sprintf(" %6s", Num(r.SubScores.Get(f), 0)))
		}
		b.WriteString("\n")
	}

	if len(run.Exclusions) > 0 {
		b.WriteString(fmt.Sprintf("\nExcluded: %d\n", len(run.Exclusions)))
		for _, e := range run.Exclusions {
			b.WriteString(fmt.Sprintf("  %s: %s\n", e.StockID, exclusionReason(e)))
		}
	}
	return b.String()
}

// FormatAnalysis formats the full breakdown of one stock.
func FormatAnalysis(a *ranking.Analysis) string {
	var b strings.Builder
	snap := a.Snapshot

	name := a.Stock.Name
	if name == "" {
		name = a.Stock.Ticker
	}
	b.WriteString(fmt.Sprintf("%s %s | %s | %s\n", a.Stock.ID, name, a.Score.Market, a.Score.Horizon))
	b.WriteString(fmt.Sprintf("collected %s, sector %s\n\n", snap.CollectedAt.Format("2006-01-02"), snap.SectorCode))

	b.WriteString(fmt.Sprintf("Price: %s\n", Num(snap.CurrentPrice, 2)))
	b.WriteString(Ratio("PER", snap.PER, a.PERRatio, 1) + "\n")
	b.WriteString(Ratio("PBR", snap.PBR, a.PBRRatio, 2) + "\n")
	b.WriteString(fmt.Sprintf("RSI: %s", Num(snap.RSI, 1)))
	if snap.RSIShort != nil {
		b.WriteString(fmt.Sprintf(" (short %s)", Num(snap.RSIShort, 1)))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Range: %s - %s\n", Num(snap.PriceLow, 2), Num(snap.PriceHigh, 2)))
	if snap.ROE != nil || snap.EPSGrowth != nil {
		b.WriteString(fmt.Sprintf("ROE: %s%% | EPS growth: %s%%\n", Num(snap.ROE, 1), Num(snap.EPSGrowth, 1)))
	}

	b.WriteString("\nSub-scores:\n")
	if factors, err := weight.FactorsFor(a.Score.Horizon); err == nil {
		for _, f := range factors {
			b.WriteString(fmt.Sprintf("  %-6s %s\n", factorLabels[f], Num(a.Score.SubScores.Get(f), 0)))
		}
	}
	b.WriteString("  ─────────────\n")
	b.WriteString(fmt.Sprintf("  Total  %s\n", Num(a.Score.Total, 1)))
	b.WriteString(fmt.Sprintf("  Sector %s\n", Num(a.Score.Sector, 0)))

	if a.Trap.Excluded {
		reasons := make([]string, len(a.Trap.Reasons))
		for i, r := range a.Trap.Reasons {
			reasons[i] = string(r)
		}
		b.WriteString(fmt.Sprintf("\nTrap stock, excluded from rankings: %s\n", strings.Join(reasons, ", ")))
	}
	return b.String()
}

func exclusionReason(e model.Exclusion) string {
	if e.Unscored {
		return "no scorable data"
	}
	reasons := make([]string, len(e.Reasons))
	for i, r := range e.Reasons {
		reasons[i] = string(r)
	}
	return strings.Join(reasons, ", ")
}
