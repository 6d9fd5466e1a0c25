package patterns

import (
	"pattern-engine/internal/geometry"
	"pattern-engine/internal/market"
)

// EngulfingRule detects bullish and bearish engulfing on the latest two
// bars. The current body must envelop the prior body fully, or partially
// within the 95%/105% bounds while covering at least 80% of the prior body.
type EngulfingRule struct {
	PartialLow      float64 // partial envelopment lower bound factor
	PartialHigh     float64 // partial envelopment upper bound factor
	PartialBodyMin  float64 // min current/prior body size for partial case
	MinBodyRatio    float64 // min body ratio of the current bar
	MinRangeRatio   float64 // min current/prior range ratio
	MinRequiredBars int
}

// NewEngulfingRule returns the rule with its calibrated thresholds.
func NewEngulfingRule() *EngulfingRule {
	return &EngulfingRule{
		PartialLow:      0.95,
		PartialHigh:     1.05,
		PartialBodyMin:  0.80,
		MinBodyRatio:    0.4,
		MinRangeRatio:   1.05,
		MinRequiredBars: 20,
	}
}

func (r *EngulfingRule) MinBars() int { return r.MinRequiredBars }

func (r *EngulfingRule) Evaluate(td market.TimeframeData, _ market.Timeframe) Outcome {
	bars, ok := td.LastBars(2)
	if !ok {
		return Outcome{}
	}
	prev, cur := bars[0], bars[1]

	return Outcome{
		Bullish: r.engulfs(prev, cur, true),
		Bearish: r.engulfs(prev, cur, false),
	}
}

// engulfs checks one direction of the pattern. Zero prior body or range is
// treated as condition not met.
func (r *EngulfingRule) engulfs(prev, cur market.Bar, bullish bool) bool {
	if bullish {
		if !prev.IsBearish() || !cur.IsBullish() {
			return false
		}
	} else {
		if !prev.IsBullish() || !cur.IsBearish() {
			return false
		}
	}

	prevBody := prev.Body()
	prevRange := prev.Range()
	if prevBody == 0 || prevRange == 0 {
		return false
	}

	ratio, ok := geometry.BodyRatio(cur)
	if !ok || ratio < r.MinBodyRatio {
		return false
	}
	if cur.Range()/prevRange < r.MinRangeRatio {
		return false
	}

	// Body bounds, low to high, independent of direction.
	prevLow, prevHigh := bodyBounds(prev)
	curLow, curHigh := bodyBounds(cur)

	full := curLow <= prevLow && curHigh >= prevHigh
	partial := curLow <= prevLow*r.PartialHigh &&
		curHigh >= prevHigh*r.PartialLow &&
		cur.Body() >= prevBody*r.PartialBodyMin

	return full || partial
}

func bodyBounds(b market.Bar) (low, high float64) {
	if b.Open < b.Close {
		return b.Open, b.Close
	}
	return b.Close, b.Open
}
