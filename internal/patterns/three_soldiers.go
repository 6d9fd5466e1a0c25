package patterns

import (
	"pattern-engine/internal/geometry"
	"pattern-engine/internal/market"
)

// ThreeSoldiersRule detects three consecutive bullish bars with steadily
// advancing closes and consistent body sizes.
type ThreeSoldiersRule struct {
	BarCount        int
	CloseDropTol    float64 // tolerated close decrease as fraction of prior close
	MinBodyRatio    float64
	MaxRatioSpread  float64 // max spread between the largest and smallest body ratio
	MinRequiredBars int
}

// NewThreeSoldiersRule returns the rule with its calibrated thresholds.
func NewThreeSoldiersRule() *ThreeSoldiersRule {
	return &ThreeSoldiersRule{
		BarCount:        3,
		CloseDropTol:    0.0005,
		MinBodyRatio:    0.3,
		MaxRatioSpread:  0.7,
		MinRequiredBars: 20,
	}
}

func (r *ThreeSoldiersRule) MinBars() int { return r.MinRequiredBars }

func (r *ThreeSoldiersRule) Evaluate(td market.TimeframeData, _ market.Timeframe) Outcome {
	bars, ok := td.LastBars(r.BarCount)
	if !ok {
		return Outcome{}
	}

	minRatio, maxRatio := 1.0, 0.0
	for i, bar := range bars {
		if !bar.IsBullish() {
			return Outcome{}
		}

		ratio, ok := geometry.BodyRatio(bar)
		if !ok || ratio < r.MinBodyRatio {
			return Outcome{}
		}
		if ratio < minRatio {
			minRatio = ratio
		}
		if ratio > maxRatio {
			maxRatio = ratio
		}

		// Closes must be non-decreasing, allowing a dip smaller than the
		// tolerance fraction of the prior close.
		if i > 0 {
			prevClose := bars[i-1].Close
			if bar.Close < prevClose && prevClose-bar.Close >= prevClose*r.CloseDropTol {
				return Outcome{}
			}
		}
	}

	if maxRatio-minRatio > r.MaxRatioSpread {
		return Outcome{}
	}

	return Outcome{Bullish: true}
}
