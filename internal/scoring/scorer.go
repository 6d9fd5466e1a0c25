// Package scoring combines per-timeframe condition results into a single
// bounded confidence score using fixed timeframe weights.
package scoring

import (
	"fmt"

	"pattern-engine/internal/market"
)

// Family selects the clamp range for a pattern's confidence score. Chart
// formations never report below coin-flip confidence; candle patterns keep
// the full range.
type Family string

const (
	FamilyChart  Family = "chart"
	FamilyCandle Family = "candle"
)

// Clamp bounds per family.
const (
	chartMin = 0.6
	chartMax = 0.95
)

// DefaultWeights are the fixed per-timeframe weights. They sum to 1.0, with
// the daily chart carrying the most evidence.
var DefaultWeights = map[market.Timeframe]float64{
	market.D1: 0.4,
	market.H4: 0.3,
	market.H1: 0.2,
	market.M5: 0.1,
}

// Scorer computes weighted confidence scores. The zero value is not usable;
// construct with NewScorer.
type Scorer struct {
	weights map[market.Timeframe]float64
}

// NewScorer creates a scorer with the default timeframe weights.
func NewScorer() *Scorer {
	return &Scorer{weights: DefaultWeights}
}

// SetWeights replaces the timeframe weights. Weights must cover the four
// required timeframes and sum to 1.0.
func (s *Scorer) SetWeights(weights map[market.Timeframe]float64) error {
	total := 0.0
	for _, tf := range market.RequiredTimeframes {
		w, ok := weights[tf]
		if !ok {
			return fmt.Errorf("missing weight for timeframe %s", tf)
		}
		total += w
	}
	if total < 0.99 || total > 1.01 {
		return fmt.Errorf("weights must sum to 1.0, got %.2f", total)
	}

	s.weights = weights
	return nil
}

// Weight returns the weight for a timeframe, 0 for unknown timeframes.
func (s *Scorer) Weight(tf market.Timeframe) float64 {
	return s.weights[tf]
}

// Score computes base * sum of weights over timeframes with met conditions,
// clamped per family. Partial-credit maps are supported: the score is
// monotonically non-decreasing in the number of met timeframes. The sum
// runs over RequiredTimeframes in their fixed order so the same input
// always produces the same bits.
func (s *Scorer) Score(met map[market.Timeframe]bool, base float64, family Family) float64 {
	sum := 0.0
	for _, tf := range market.RequiredTimeframes {
		if met[tf] {
			sum += s.weights[tf]
		}
	}

	score := base * sum

	switch family {
	case FamilyChart:
		if score < chartMin {
			score = chartMin
		}
		if score > chartMax {
			score = chartMax
		}
	default:
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
	}

	return score
}
