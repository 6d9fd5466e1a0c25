package patterns

import (
	"math"

	"pattern-engine/internal/geometry"
	"pattern-engine/internal/market"
)

// TrendReversalRule detects overbought exhaustion across timeframes. The
// daily chart only needs elevated RSI; the intraday charts additionally
// require price pressing the Bollinger upper band, and the five-minute
// chart must show rejection shadows on recent bars.
type TrendReversalRule struct {
	RSIThreshold     float64 // RSI must exceed this on every timeframe
	BandProximity    float64 // max relative distance from the upper band (H4/H1)
	ShadowMinLength  float64 // min shadow length in price units (M5)
	ShadowLookback   int     // bars inspected for shadows (M5)
	MinRequiredBars  int
}

// NewTrendReversalRule returns the rule with its calibrated thresholds.
func NewTrendReversalRule() *TrendReversalRule {
	return &TrendReversalRule{
		RSIThreshold:    65,
		BandProximity:   0.05,
		ShadowMinLength: 0.05,
		ShadowLookback:  3,
		MinRequiredBars: 20,
	}
}

func (r *TrendReversalRule) MinBars() int { return r.MinRequiredBars }

// Evaluate applies the timeframe-specific predicate. An overbought reversal
// is a sell setup, so only the bearish side can be met.
func (r *TrendReversalRule) Evaluate(td market.TimeframeData, tf market.Timeframe) Outcome {
	if td.RSI <= r.RSIThreshold {
		return Outcome{}
	}

	switch tf {
	case market.D1:
		return Outcome{Bearish: true}

	case market.H4, market.H1:
		last, ok := td.LastBar()
		if !ok {
			return Outcome{}
		}
		upper, ok := td.CurrentBollingerUpper()
		if !ok || upper == 0 {
			return Outcome{}
		}
		if math.Abs(last.Close-upper) <= upper*r.BandProximity {
			return Outcome{Bearish: true}
		}
		return Outcome{}

	case market.M5:
		recent, ok := td.LastBars(r.ShadowLookback)
		if !ok {
			return Outcome{}
		}
		for _, bar := range recent {
			if geometry.HasShadow(bar, r.ShadowMinLength) {
				return Outcome{Bearish: true}
			}
		}
		return Outcome{}
	}

	return Outcome{}
}
