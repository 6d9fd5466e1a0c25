package analysis

import (
	"math"

	"pattern-engine/internal/geometry"
	"pattern-engine/internal/market"
)

// Classifier derives per-timeframe outlooks from swing structure and the
// MACD histogram.
type Classifier struct {
	swingWindow      int     // extrema search window for swing points
	histogramNeutral float64 // |histogram| below this is neutral momentum
}

// NewClassifier creates a classifier with default calibration.
func NewClassifier() *Classifier {
	return &Classifier{
		swingWindow:      5,
		histogramNeutral: 0.0001,
	}
}

// Classify produces the outlook for every timeframe present in the
// snapshot.
func (c *Classifier) Classify(snap *market.Snapshot) OutlookSet {
	out := make(OutlookSet, len(snap.Data))
	for tf, td := range snap.Data {
		out[tf] = Outlook{
			Trend:    c.classifyTrend(td.Bars),
			Momentum: c.classifyMomentum(td.MACD),
		}
	}
	return out
}

// classifyTrend counts higher highs and lower lows over the swing points.
// An uptrend needs the bullish swings to dominate, a downtrend the bearish
// ones; mixed structure is sideways.
func (c *Classifier) classifyTrend(bars []market.Bar) TrendDirection {
	if len(bars) < c.swingWindow*2 {
		return TrendSideways
	}

	swingHighs := geometry.FindLocalMaxima(market.Highs(bars), c.swingWindow)
	swingLows := geometry.FindLocalMinima(market.Lows(bars), c.swingWindow)

	higherHighs, lowerHighs := countRising(market.Highs(bars), swingHighs)
	higherLows, lowerLows := countRising(market.Lows(bars), swingLows)

	bullish := higherHighs + higherLows
	bearish := lowerHighs + lowerLows

	switch {
	case bullish > 0 && bullish >= bearish*2:
		return TrendUp
	case bearish > 0 && bearish >= bullish*2:
		return TrendDown
	default:
		return TrendSideways
	}
}

// countRising walks consecutive swing points and counts rising and falling
// transitions.
func countRising(values []float64, indices []int) (rising, falling int) {
	for i := 1; i < len(indices); i++ {
		cur := values[indices[i]]
		prev := values[indices[i-1]]
		if cur > prev {
			rising++
		} else if cur < prev {
			falling++
		}
	}
	return rising, falling
}

// classifyMomentum reads the latest MACD histogram value.
func (c *Classifier) classifyMomentum(macd market.MACDSeries) Momentum {
	if len(macd.Histogram) == 0 {
		return MomentumNeutral
	}

	h := macd.Histogram[len(macd.Histogram)-1]
	switch {
	case math.Abs(h) < c.histogramNeutral:
		return MomentumNeutral
	case h > 0:
		return MomentumBullish
	default:
		return MomentumBearish
	}
}
