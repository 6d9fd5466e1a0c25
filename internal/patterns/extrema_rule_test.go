package patterns

import (
	"testing"

	"pattern-engine/internal/market"
)

// topBars builds a bar series with peaks on the High column at the given
// indices and a valley on the Low column at each valley index.
func topBars(n int, peaks map[int]float64, valleys map[int]float64) []market.Bar {
	bars := make([]market.Bar, n)
	for i := range bars {
		bars[i] = market.Bar{Open: 99.2, High: 100, Low: 99, Close: 99.5}
		if h, ok := peaks[i]; ok {
			bars[i].High = h
		}
		if l, ok := valleys[i]; ok {
			bars[i].Low = l
		}
	}
	return bars
}

// TestDoubleTopDetection verifies a clean double top produces a bearish
// outcome and no bullish one.
func TestDoubleTopDetection(t *testing.T) {
	rule := NewDoubleTopBottomRule()

	bars := topBars(30,
		map[int]float64{10: 110, 20: 110.5},
		map[int]float64{15: 95},
	)
	out := rule.Evaluate(makeTimeframeData(bars, 50, 120), market.D1)

	if !out.Bearish {
		t.Error("Should detect double top as bearish")
	}
	if out.Bullish {
		t.Error("Double top should not report a bullish outcome")
	}
}

// TestDoubleBottomDetection verifies the mirrored bottom formation.
func TestDoubleBottomDetection(t *testing.T) {
	rule := NewDoubleTopBottomRule()

	bars := make([]market.Bar, 30)
	for i := range bars {
		bars[i] = market.Bar{Open: 100.8, High: 101, Low: 100, Close: 100.5}
	}
	bars[10].Low = 90
	bars[20].Low = 90.4
	bars[15].High = 105

	out := rule.Evaluate(makeTimeframeData(bars, 50, 120), market.D1)
	if !out.Bullish {
		t.Error("Should detect double bottom as bullish")
	}
	if out.Bearish {
		t.Error("Double bottom should not report a bearish outcome")
	}
}

// TestDoubleTopMinDistance verifies extrema closer than 5 bars never match,
// regardless of value equality.
func TestDoubleTopMinDistance(t *testing.T) {
	rule := NewDoubleTopBottomRule()

	values := make([]float64, 30)
	for i := range values {
		values[i] = 100
	}
	values[10] = 110
	values[12] = 110

	if _, ok := rule.lastExtrema([]int{10, 12}, values); ok {
		t.Error("Extrema at distance 2 must never match, even with equal values")
	}
}

// TestDoubleTopValueTolerance verifies peaks differing by more than 2% are
// rejected.
func TestDoubleTopValueTolerance(t *testing.T) {
	rule := NewDoubleTopBottomRule()

	bars := topBars(30,
		map[int]float64{10: 110, 20: 115},
		map[int]float64{15: 95},
	)
	out := rule.Evaluate(makeTimeframeData(bars, 50, 120), market.D1)
	if out.Bearish {
		t.Error("Should reject peaks differing by more than 2%")
	}
}

// TestTripleTopDetection verifies the triple formation with two neckline
// points.
func TestTripleTopDetection(t *testing.T) {
	rule := NewTripleTopBottomRule()

	bars := topBars(35,
		map[int]float64{8: 110, 15: 110.5, 22: 109.7},
		map[int]float64{11: 95.2, 19: 95.0},
	)
	out := rule.Evaluate(makeTimeframeData(bars, 50, 120), market.D1)
	if !out.Bearish {
		t.Error("Should detect triple top as bearish")
	}
}

// TestTripleTopNecklineSlope verifies a steep neckline breaks the formation.
func TestTripleTopNecklineSlope(t *testing.T) {
	rule := NewTripleTopBottomRule()

	bars := topBars(35,
		map[int]float64{8: 110, 15: 110.5, 22: 109.7},
		map[int]float64{11: 95, 19: 99.0},
	)
	out := rule.Evaluate(makeTimeframeData(bars, 50, 120), market.D1)
	if out.Bearish {
		t.Error("Should reject triple top with neckline slope beyond tolerance")
	}
}

// TestExtremaShortSeries verifies the minimum bar requirements.
func TestExtremaShortSeries(t *testing.T) {
	double := NewDoubleTopBottomRule()
	triple := NewTripleTopBottomRule()

	bars := topBars(15, map[int]float64{5: 110, 12: 110.2}, nil)
	if out := double.Evaluate(makeTimeframeData(bars, 50, 120), market.D1); out.Bearish || out.Bullish {
		t.Error("Double pattern needs at least 20 bars")
	}

	bars = topBars(25, map[int]float64{5: 110, 12: 110.2, 19: 110.1}, nil)
	if out := triple.Evaluate(makeTimeframeData(bars, 50, 120), market.D1); out.Bearish || out.Bullish {
		t.Error("Triple pattern needs at least 30 bars")
	}
}
