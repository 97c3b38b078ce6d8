package strategy

import "ValueSentinel/internal/model"

// SectorRatio expresses value as a percentage of its sector average:
// value / sectorAverage × 100. Nil when either operand is missing or the
// average is zero. Scorers and display share this formula.
func SectorRatio(value, sectorAverage *float64) *float64 {
	if value == nil || sectorAverage == nil || *sectorAverage == 0 {
		return nil
	}
	r := *value * 100 / *sectorAverage
	return &r
}

// RSIMomentum is the short-period RSI minus the base-period RSI.
func RSIMomentum(snap *model.IndicatorSnapshot) *float64 {
	if snap.RSIShort == nil || snap.RSI == nil {
		return nil
	}
	d := *snap.RSIShort - *snap.RSI
	return &d
}

// VolumeRatio is the short average volume over the long average volume.
func VolumeRatio(snap *model.IndicatorSnapshot) *float64 {
	if snap.AvgVolumeShort == nil || snap.AvgVolumeLong == nil || *snap.AvgVolumeLong <= 0 {
		return nil
	}
	r := *snap.AvgVolumeShort / *snap.AvgVolumeLong
	return &r
}
