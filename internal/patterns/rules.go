package patterns

import "pattern-engine/internal/market"

// Outcome reports which directions of a rule a single timeframe satisfies.
// Direction-neutral rules set exactly one side; dual-sided rules (engulfing,
// marubozu, top/bottom formations) may set either.
type Outcome struct {
	Bullish bool
	Bearish bool
}

// Rule is the per-timeframe predicate of one pattern. Rules are stateless
// beyond their tolerance constants and safe for concurrent use.
type Rule interface {
	// Evaluate checks the rule against one timeframe's data.
	Evaluate(td market.TimeframeData, tf market.Timeframe) Outcome

	// MinBars is the minimum price series length the rule needs on every
	// timeframe for the snapshot to be considered valid.
	MinBars() int
}
