package filters

import (
	"fmt"

	"github.com/rs/zerolog"

	"pattern-engine/internal/analysis"
	"pattern-engine/internal/market"
	"pattern-engine/internal/patterns"
	"pattern-engine/internal/scoring"
)

// ConsistencyFilter rejects signals that the broader timeframe outlook does
// not support. Support is weighted with the standard timeframe weights, so
// a dissenting daily chart outweighs a dissenting five-minute chart.
type ConsistencyFilter struct {
	threshold float64
	scorer    *scoring.Scorer
	history   *History
	logger    zerolog.Logger
}

// NewConsistencyFilter creates the filter with the default 0.7 support
// threshold.
func NewConsistencyFilter(scorer *scoring.Scorer, logger zerolog.Logger) *ConsistencyFilter {
	return &ConsistencyFilter{
		threshold: 0.7,
		scorer:    scorer,
		history:   &History{},
		logger:    logger.With().Str("filter", "consistency").Logger(),
	}
}

// Name returns the filter identifier used in decisions.
func (f *ConsistencyFilter) Name() string { return "consistency" }

// History exposes the rolling decision history for diagnostics.
func (f *ConsistencyFilter) History() *History { return f.history }

// Apply computes the weighted supporting fraction across the required
// timeframes and rejects the signal when it falls below the threshold.
// Timeframes with no supplied outlook count as non-supporting.
func (f *ConsistencyFilter) Apply(sig *patterns.DetectionResult, outlooks analysis.OutlookSet) Decision {
	support := 0.0
	for _, tf := range market.RequiredTimeframes {
		outlook, ok := outlooks[tf]
		if !ok {
			f.logger.Debug().
				Str("symbol", sig.Symbol).
				Str("timeframe", string(tf)).
				Msg("no outlook supplied, counting as non-supporting")
			continue
		}
		if supports(sig.Direction, outlook) {
			support += f.scorer.Weight(tf)
		}
	}

	decision := Decision{
		Filter:             f.Name(),
		Accepted:           support >= f.threshold,
		AdjustedConfidence: sig.Confidence,
	}
	if !decision.Accepted {
		decision.Reason = fmt.Sprintf("timeframe support %.2f below threshold %.2f", support, f.threshold)
		decision.AdjustedConfidence = 0
	}

	f.history.Record(decision)
	return decision
}

// supports reports whether one timeframe's outlook backs the signal
// direction. A BUY needs a non-bearish structure and momentum; SELL is the
// mirror.
func supports(dir patterns.Direction, outlook analysis.Outlook) bool {
	if dir == patterns.Buy {
		trendOK := outlook.Trend == analysis.TrendUp || outlook.Trend == analysis.TrendSideways
		momentumOK := outlook.Momentum == analysis.MomentumBullish || outlook.Momentum == analysis.MomentumNeutral
		return trendOK && momentumOK
	}

	trendOK := outlook.Trend == analysis.TrendDown || outlook.Trend == analysis.TrendSideways
	momentumOK := outlook.Momentum == analysis.MomentumBearish || outlook.Momentum == analysis.MomentumNeutral
	return trendOK && momentumOK
}
