package strategy

import (
	"ValueSentinel/internal/config"
)

// ScorePER scores a PER by its ratio to the sector average PER: the cheaper
// relative to the sector, the higher the score. A non-positive PER
// (loss-making) scores 0.
func ScorePER(per, sectorPER *float64, th config.ValuationThresholds) *float64 {
	if per == nil {
		return nil
	}
	if *per <= 0 {
		return score(0)
	}
	ratio := SectorRatio(per, sectorPER)
	if ratio == nil || *ratio < 0 {
		return nil
	}
	return score(bucketAtMost(*ratio, th.Excellent, th.Good, th.Fair, th.Poor))
}

// ScorePBR scores a PBR like ScorePER, then dampens the score when a very low
// PBR comes with a low ROE: cheap book value without profitability signals a
// value trap. An unknown ROE leaves the score untouched.
func ScorePBR(pbr, sectorPBR, roe *float64, th config.ValuationThresholds, pen config.PBRPenaltyThresholds) *float64 {
	if pbr == nil {
		return nil
	}
	if *pbr <= 0 {
		return score(0)
	}
	ratio := SectorRatio(pbr, sectorPBR)
	if ratio == nil || *ratio < 0 {
		return nil
	}
	s := bucketAtMost(*ratio, th.Excellent, th.Good, th.Fair, th.Poor)
	if roe != nil && *roe < pen.LowROE {
		switch {
		case *pbr < pen.SeverelyLow:
			s *= pen.SeverePenalty
		case *pbr < pen.Low:
			s *= pen.LowPenalty
		}
	}
	return score(s)
}

// SectorScore is the continuous sector-relative score: each available PER/PBR
// ratio maps linearly from 100 at th.Floor to 0 at th.Ceiling, and the
// results are averaged.
func SectorScore(perRatio, pbrRatio *float64, th config.SectorThresholds) *float64 {
	var sum float64
	var n int
	for _, r := range []*float64{perRatio, pbrRatio} {
		if r == nil {
			continue
		}
		sum += clamp((th.Ceiling-*r)/(th.Ceiling-th.Floor)*100, 0, 100)
		n++
	}
	if n == 0 {
		return nil
	}
	return score(sum / float64(n))
}
