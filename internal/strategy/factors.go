package strategy

import (
	"math"

	"ValueSentinel/internal/calculator"
	"ValueSentinel/internal/config"
	"ValueSentinel/internal/model"
)

// FavorableTags is the set of theme tags the current market analysis favors.
type FavorableTags map[string]struct{}

// NewFavorableTags builds a tag set from tag IDs.
func NewFavorableTags(ids ...string) FavorableTags {
	out := make(FavorableTags, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

// ScoreRSI rewards oversold readings. Higher RSI never scores higher.
func ScoreRSI(rsi *float64, th config.RSIThresholds) *float64 {
	if rsi == nil {
		return nil
	}
	mid := (th.Oversold + th.Neutral) / 2
	return score(bucketAtMost(*rsi, th.Oversold, mid, th.Neutral, th.Overbought))
}

// ScorePriceRange rewards prices near the bottom of their period window.
// A degenerate window (high == low) has no position and scores nil.
func ScorePriceRange(price, high, low *float64, th config.PriceRangeThresholds) *float64 {
	pos := calculator.RangePosition(price, high, low)
	if pos == nil {
		return nil
	}
	return score(bucketAtMost(*pos, th.Bottom, th.Low, th.Mid, th.High))
}

// ScoreEPSGrowth is monotonic in growth; shrinking earnings score 0.
func ScoreEPSGrowth(growth *float64, th config.EPSGrowthThresholds) *float64 {
	if growth == nil {
		return nil
	}
	return score(bucketAtLeast(*growth, 0, th.LowGrowth, th.HighGrowth, th.Exceptional))
}

// ScoreROE is monotonic in ROE; negative ROE scores 0.
func ScoreROE(roe *float64, th config.ROEThresholds) *float64 {
	if roe == nil {
		return nil
	}
	return score(bucketAtLeast(*roe, 0, th.Low, th.Medium, th.High))
}

// ScoreRSIMomentum rewards a short-period RSI rising above the base RSI.
func ScoreRSIMomentum(delta *float64, th config.MomentumThresholds) *float64 {
	if delta == nil {
		return nil
	}
	return score(bucketAtLeast(*delta, -th.Moderate, 0, th.Moderate, th.Strong))
}

// ScoreVolumeSurge rewards short-term volume above its long-term baseline.
// With a configured ExtremeCap, ratios at or above it are capped at 50.
func ScoreVolumeSurge(ratio *float64, th config.VolumeSurgeThresholds) *float64 {
	if ratio == nil {
		return nil
	}
	s := bucketAtLeast(*ratio, th.Quiet, th.Normal, th.Elevated, th.Surge)
	if th.ExtremeCap > 0 && *ratio >= th.ExtremeCap {
		s = math.Min(s, 50)
	}
	return score(s)
}

// ScoreTag awards PointsPerMatch per distinct favorable tag, up to 100.
// Nil when the stock has no tags or there is no favorable-tag context.
func ScoreTag(tags []string, favorable FavorableTags, th config.TagThresholds) *float64 {
	if len(tags) == 0 || len(favorable) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	matches := 0
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		if _, ok := favorable[t]; ok {
			matches++
		}
	}
	return score(math.Min(100, float64(matches)*th.PointsPerMatch))
}

// bucketAtMost maps v onto 100/75/50/25/0 for cutoffs in ascending order;
// v at or below the first cutoff scores 100.
func bucketAtMost(v float64, cutoffs ...float64) float64 {
	for i, c := range cutoffs {
		if v <= c {
			return bucketScores[i]
		}
	}
	return 0
}

// bucketAtLeast maps v onto 0/25/50/75/100 for cutoffs in ascending order;
// v at or above the last cutoff scores 100.
func bucketAtLeast(v float64, cutoffs ...float64) float64 {
	for i := len(cutoffs) - 1; i >= 0; i-- {
		if v >= cutoffs[i] {
			return bucketScores[len(cutoffs)-1-i]
		}
	}
	return 0
}

var bucketScores = []float64{100, 75, 50, 25}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func score(v float64) *float64 { return &v }

// subScores computes every sub-score the horizon weights.
// roe feeds the PBR penalty and may come from fundamentals when the snapshot
// carries none.
func subScores(snap *model.IndicatorSnapshot, sector *model.SectorAverage, roe *float64, th config.Thresholds, factors []model.Factor, favorable FavorableTags) model.SubScores {
	var sectorPER, sectorPBR *float64
	if sector != nil {
		sectorPER, sectorPBR = sector.PER, sector.PBR
	}
	var s model.SubScores
	for _, f := range factors {
		switch f {
		case model.FactorPER:
			s.PER = ScorePER(snap.PER, sectorPER, th.PER)
		case model.FactorPBR:
			s.PBR = ScorePBR(snap.PBR, sectorPBR, roe, th.PBR, th.PBRPenalty)
		case model.FactorRSI:
			s.RSI = ScoreRSI(snap.RSI, th.RSI)
		case model.FactorPriceRange:
			s.PriceRange = ScorePriceRange(snap.CurrentPrice, snap.PriceHigh, snap.PriceLow, th.PriceRange)
		case model.FactorEPSGrowth:
			s.EPSGrowth = ScoreEPSGrowth(snap.EPSGrowth, th.EPSGrowth)
		case model.FactorROE:
			s.ROE = ScoreROE(snap.ROE, th.ROE)
		case model.FactorRSIMomentum:
			s.RSIMomentum = ScoreRSIMomentum(RSIMomentum(snap), th.RSIMomentum)
		case model.FactorVolumeSurge:
			s.VolumeSurge = ScoreVolumeSurge(VolumeRatio(snap), th.VolumeSurge)
		case model.FactorTagScore:
			s.TagScore = ScoreTag(snap.Tags, favorable, th.Tag)
		}
	}
	return s
}
