package filters

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"pattern-engine/internal/patterns"
)

// CorrelationFilter suppresses signals on instruments highly correlated
// with an already-open position in the same direction, and dampens
// confidence on anything below the rejection threshold.
type CorrelationFilter struct {
	threshold float64
	strength  float64
	history   *History
	logger    zerolog.Logger
}

// NewCorrelationFilter creates the filter with its defaults: full rejection
// at |correlation| >= 0.8 with matching direction, confidence damping
// strength 0.7 otherwise.
func NewCorrelationFilter(logger zerolog.Logger) *CorrelationFilter {
	return &CorrelationFilter{
		threshold: 0.8,
		strength:  0.7,
		history:   &History{},
		logger:    logger.With().Str("filter", "correlation").Logger(),
	}
}

// Name returns the filter identifier used in decisions.
func (f *CorrelationFilter) Name() string { return "correlation" }

// History exposes the rolling decision history for diagnostics.
func (f *CorrelationFilter) History() *History { return f.history }

// Apply evaluates one candidate against the open positions. A matrix lookup
// miss is treated as correlation 0.0 and logged as a degraded-mode event.
// The decision is recorded in the rolling history.
func (f *CorrelationFilter) Apply(sig *patterns.DetectionResult, matrix CorrelationMatrix, open []Position) Decision {
	decision := Decision{
		Filter:             f.Name(),
		Accepted:           true,
		AdjustedConfidence: sig.Confidence,
	}

	maxCorr := 0.0
	for _, pos := range open {
		if pos.Symbol == sig.Symbol {
			continue
		}

		corr, ok := matrix.Lookup(sig.Symbol, pos.Symbol)
		if !ok {
			f.logger.Warn().
				Str("symbol", sig.Symbol).
				Str("position", pos.Symbol).
				Msg("correlation lookup miss, assuming 0.0")
			continue
		}

		if math.Abs(corr) >= f.threshold && pos.Direction == sig.Direction {
			decision.Accepted = false
			decision.Reason = fmt.Sprintf("correlated with open %s position %s (%.2f)",
				pos.Direction, pos.Symbol, corr)
			decision.AdjustedConfidence = 0
			f.history.Record(decision)
			return decision
		}

		if math.Abs(corr) > maxCorr {
			maxCorr = math.Abs(corr)
		}
	}

	if maxCorr > 0 {
		adjusted := sig.Confidence * (1 - maxCorr*f.strength)
		if adjusted < 0 {
			adjusted = 0
		}
		decision.AdjustedConfidence = adjusted
		decision.Reason = fmt.Sprintf("confidence reduced by correlation %.2f", maxCorr)
	}

	f.history.Record(decision)
	return decision
}
