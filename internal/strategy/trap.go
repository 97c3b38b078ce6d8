package strategy

import (
	"ValueSentinel/internal/config"
	"ValueSentinel/internal/model"
)

// TrapFilter excludes financially unhealthy stocks before ranking.
// Missing data never excludes a stock.
type TrapFilter struct {
	cfg config.TrapConfig
}

func NewTrapFilter(cfg config.TrapConfig) *TrapFilter {
	return &TrapFilter{cfg: cfg}
}

// Check evaluates every gate and reports all that fail.
func (f *TrapFilter) Check(fd *model.Fundamentals) model.TrapVerdict {
	var v model.TrapVerdict
	if fd == nil {
		return v
	}
	if fd.EquityRatio != nil && *fd.EquityRatio < f.cfg.EquityRatioFloor {
		v.Reasons = append(v.Reasons, model.TrapLowEquityRatio)
	}
	if TrailingDeclines(fd.OperatingProfits) >= f.cfg.ProfitDeclinePeriods {
		v.Reasons = append(v.Reasons, model.TrapOperatingProfitDecline)
	}
	if TrailingNegatives(fd.OperatingCashFlows) >= f.cfg.NegativeCashFlowPeriods {
		v.Reasons = append(v.Reasons, model.TrapNegativeCashFlow)
	}
	v.Excluded = len(v.Reasons) > 0
	return v
}

// TrailingDeclines counts the consecutive period-over-period declines at the
// end of a chronological series.
func TrailingDeclines(series []float64) int {
	n := 0
	for i := len(series) - 1; i > 0; i-- {
		if series[i] >= series[i-1] {
			break
		}
		n++
	}
	return n
}

// TrailingNegatives counts the consecutive negative values at the end of a
// chronological series.
func TrailingNegatives(series []float64) int {
	n := 0
	for i := len(series) - 1; i >= 0; i-- {
		if series[i] >= 0 {
			break
		}
		n++
	}
	return n
}
