package strategy

import (
	"ValueSentinel/internal/model"
	"ValueSentinel/internal/weight"
)

// Aggregate combines sub-scores into a 0-100 total. Missing sub-scores drop
// out together with their weight, so the total is renormalized over the
// weight mass that is actually available:
//
//	total = Σ(score_i × weight_i) / Σ(weight_i)   for every known score_i
//
// Nil when no weighted factor has a score or the available mass is zero.
func Aggregate(s model.SubScores, b weight.Bundle) *float64 {
	var weighted, mass float64
	for _, e := range b.Entries() {
		v := s.Get(e.Factor)
		if v == nil {
			continue
		}
		weighted += *v * e.Value
		mass += e.Value
	}
	if mass == 0 {
		return nil
	}
	return score(weighted / mass)
}
