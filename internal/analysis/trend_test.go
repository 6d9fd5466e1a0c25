package analysis

import (
	"testing"

	"pattern-engine/internal/market"
)

// risingBars builds a zigzag series whose swing highs and swing lows both
// ascend: five bars up by 1.0, five bars down by 0.6, net +2 per cycle.
func risingBars(n int) []market.Bar {
	bars := make([]market.Bar, n)
	v := 100.0
	for i := range bars {
		bars[i] = market.Bar{
			Open:  v - 0.1,
			High:  v + 0.2,
			Low:   v - 0.2,
			Close: v + 0.1,
		}
		if i%10 < 4 || i%10 == 9 {
			v += 1.0
		} else {
			v -= 0.6
		}
	}
	return bars
}

// TestClassifyTrendUp verifies ascending swing structure reads as uptrend.
func TestClassifyTrendUp(t *testing.T) {
	c := NewClassifier()

	if trend := c.classifyTrend(risingBars(40)); trend != TrendUp {
		t.Errorf("Expected uptrend, got %s", trend)
	}
}

// TestClassifyTrendDown verifies the mirrored descending structure.
func TestClassifyTrendDown(t *testing.T) {
	c := NewClassifier()

	rising := risingBars(40)
	falling := make([]market.Bar, len(rising))
	for i, b := range rising {
		falling[i] = market.Bar{
			Open:  200 - b.Open,
			High:  200 - b.Low,
			Low:   200 - b.High,
			Close: 200 - b.Close,
		}
	}

	if trend := c.classifyTrend(falling); trend != TrendDown {
		t.Errorf("Expected downtrend, got %s", trend)
	}
}

// TestClassifyTrendShortSeries verifies a short series defaults to sideways.
func TestClassifyTrendShortSeries(t *testing.T) {
	c := NewClassifier()

	if trend := c.classifyTrend(risingBars(5)); trend != TrendSideways {
		t.Errorf("Expected sideways for short series, got %s", trend)
	}
}

// TestClassifyMomentum verifies histogram sign mapping.
func TestClassifyMomentum(t *testing.T) {
	c := NewClassifier()

	bullish := market.MACDSeries{Histogram: []float64{-0.2, 0.1, 0.3}}
	if m := c.classifyMomentum(bullish); m != MomentumBullish {
		t.Errorf("Expected bullish momentum, got %s", m)
	}

	bearish := market.MACDSeries{Histogram: []float64{0.2, -0.1}}
	if m := c.classifyMomentum(bearish); m != MomentumBearish {
		t.Errorf("Expected bearish momentum, got %s", m)
	}

	neutral := market.MACDSeries{Histogram: []float64{0.00005}}
	if m := c.classifyMomentum(neutral); m != MomentumNeutral {
		t.Errorf("Expected neutral momentum, got %s", m)
	}

	if m := c.classifyMomentum(market.MACDSeries{}); m != MomentumNeutral {
		t.Errorf("Expected neutral momentum for empty series, got %s", m)
	}
}
