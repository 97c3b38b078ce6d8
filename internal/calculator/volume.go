package calculator

import (
	"gonum.org/v1/gonum/stat"

	"ValueSentinel/internal/model"
)

// AverageVolume returns the mean volume of the most recent period bars,
// or nil when fewer than period bars are available.
func AverageVolume(bars []model.OHLCV, period int) *float64 {
	if period <= 0 || len(bars) < period {
		return nil
	}
	vols := extractVolumes(bars[len(bars)-period:])
	avg := stat.Mean(vols, nil)
	return &avg
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

func extractVolumes(bars []model.OHLCV) []float64 {
	vols := make([]float64, len(bars))
	for i, b := range bars {
		vols[i] = b.Volume
	}
	return vols
}
