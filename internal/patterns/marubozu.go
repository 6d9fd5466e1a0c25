package patterns

import (
	"pattern-engine/internal/geometry"
	"pattern-engine/internal/market"
)

// MarubozuRule detects a dominant-body bar with negligible wicks on the
// latest bar, in either direction.
type MarubozuRule struct {
	MinBodyRatio    float64
	MaxWickRatio    float64
	MinRequiredBars int
}

// NewMarubozuRule returns the rule with its calibrated thresholds.
func NewMarubozuRule() *MarubozuRule {
	return &MarubozuRule{
		MinBodyRatio:    0.6,
		MaxWickRatio:    0.2,
		MinRequiredBars: 20,
	}
}

func (r *MarubozuRule) MinBars() int { return r.MinRequiredBars }

func (r *MarubozuRule) Evaluate(td market.TimeframeData, _ market.Timeframe) Outcome {
	bar, ok := td.LastBar()
	if !ok {
		return Outcome{}
	}

	ratio, ok := geometry.BodyRatio(bar)
	if !ok || ratio < r.MinBodyRatio {
		return Outcome{}
	}
	if !geometry.WickAbsence(bar, r.MaxWickRatio) {
		return Outcome{}
	}

	return Outcome{
		Bullish: bar.IsBullish(),
		Bearish: bar.IsBearish(),
	}
}
