package patterns

import (
	"math"

	"pattern-engine/internal/geometry"
	"pattern-engine/internal/market"
)

// ExtremaRule detects double and triple top/bottom formations. Tops look for
// local maxima on the High column and produce a bearish outcome; bottoms
// mirror on the Low column. The neckline is built from the intermediate
// opposite extrema between the matched peaks or troughs.
type ExtremaRule struct {
	Peaks             int     // 2 for double, 3 for triple
	Window            int     // extrema search window
	MinIndexDistance  int     // min bars between adjacent extrema
	ValueTolerance    float64 // max relative spread between extrema values
	NecklineTolerance float64
	MinRequiredBars   int
}

// NewDoubleTopBottomRule returns the double formation thresholds.
func NewDoubleTopBottomRule() *ExtremaRule {
	return &ExtremaRule{
		Peaks:             2,
		Window:            3,
		MinIndexDistance:  5,
		ValueTolerance:    0.02,
		NecklineTolerance: 0.01,
		MinRequiredBars:   20,
	}
}

// NewTripleTopBottomRule returns the triple formation thresholds.
func NewTripleTopBottomRule() *ExtremaRule {
	return &ExtremaRule{
		Peaks:             3,
		Window:            3,
		MinIndexDistance:  5,
		ValueTolerance:    0.015,
		NecklineTolerance: 0.008,
		MinRequiredBars:   30,
	}
}

func (r *ExtremaRule) MinBars() int { return r.MinRequiredBars }

func (r *ExtremaRule) Evaluate(td market.TimeframeData, _ market.Timeframe) Outcome {
	if len(td.Bars) < r.MinRequiredBars {
		return Outcome{}
	}

	last, ok := td.LastBar()
	if !ok {
		return Outcome{}
	}

	return Outcome{
		Bearish: r.matchTop(td.Bars, last.Close),
		Bullish: r.matchBottom(td.Bars, last.Close),
	}
}

// matchTop checks the top formation on High maxima.
func (r *ExtremaRule) matchTop(bars []market.Bar, referenceClose float64) bool {
	highs := market.Highs(bars)
	maxima := geometry.FindLocalMaxima(highs, r.Window)
	peaks, ok := r.lastExtrema(maxima, highs)
	if !ok {
		return false
	}

	// Neckline from the deepest low between each adjacent peak pair.
	lows := market.Lows(bars)
	neckline := make([]float64, 0, r.Peaks-1)
	for i := 1; i < len(peaks.indices); i++ {
		v, ok := segmentMin(lows, peaks.indices[i-1], peaks.indices[i])
		if !ok {
			return false
		}
		neckline = append(neckline, v)
	}

	return geometry.NecklineOK(neckline, r.NecklineTolerance, referenceClose)
}

// matchBottom checks the bottom formation on Low minima.
func (r *ExtremaRule) matchBottom(bars []market.Bar, referenceClose float64) bool {
	lows := market.Lows(bars)
	minima := geometry.FindLocalMinima(lows, r.Window)
	troughs, ok := r.lastExtrema(minima, lows)
	if !ok {
		return false
	}

	highs := market.Highs(bars)
	neckline := make([]float64, 0, r.Peaks-1)
	for i := 1; i < len(troughs.indices); i++ {
		v, ok := segmentMax(highs, troughs.indices[i-1], troughs.indices[i])
		if !ok {
			return false
		}
		neckline = append(neckline, v)
	}

	return geometry.NecklineOK(neckline, r.NecklineTolerance, referenceClose)
}

type extremaSet struct {
	indices []int
	values  []float64
}

// lastExtrema takes the final Peaks extrema and validates index distance and
// value tolerance. Either check failing rejects the formation regardless of
// the other.
func (r *ExtremaRule) lastExtrema(indices []int, values []float64) (extremaSet, bool) {
	if len(indices) < r.Peaks {
		return extremaSet{}, false
	}

	picked := indices[len(indices)-r.Peaks:]

	lo, hi := math.Inf(1), math.Inf(-1)
	for i, idx := range picked {
		if i > 0 && idx-picked[i-1] < r.MinIndexDistance {
			return extremaSet{}, false
		}
		v := values[idx]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	if lo <= 0 {
		return extremaSet{}, false
	}
	if (hi-lo)/lo > r.ValueTolerance {
		return extremaSet{}, false
	}

	vals := make([]float64, len(picked))
	for i, idx := range picked {
		vals[i] = values[idx]
	}
	return extremaSet{indices: picked, values: vals}, true
}

// segmentMin returns the minimum value strictly between indices a and b.
func segmentMin(values []float64, a, b int) (float64, bool) {
	if b-a < 2 {
		return 0, false
	}
	m := math.Inf(1)
	for i := a + 1; i < b; i++ {
		if values[i] < m {
			m = values[i]
		}
	}
	return m, true
}

// segmentMax returns the maximum value strictly between indices a and b.
func segmentMax(values []float64, a, b int) (float64, bool) {
	if b-a < 2 {
		return 0, false
	}
	m := math.Inf(-1)
	for i := a + 1; i < b; i++ {
		if values[i] > m {
			m = values[i]
		}
	}
	return m, true
}
