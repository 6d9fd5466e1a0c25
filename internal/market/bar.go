package market

import "math"

// Bar represents a single OHLCV price bar. Bars are produced by the upstream
// data pipeline and never mutated once inside the engine.
type Bar struct {
	OpenTime int64   `json:"open_time"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   float64 `json:"volume"`
}

// Body returns the absolute body size of the bar.
func (b Bar) Body() float64 {
	return math.Abs(b.Close - b.Open)
}

// Range returns the full high-low range of the bar.
func (b Bar) Range() float64 {
	return b.High - b.Low
}

// UpperWick returns the length of the upper shadow.
func (b Bar) UpperWick() float64 {
	return b.High - math.Max(b.Open, b.Close)
}

// LowerWick returns the length of the lower shadow.
func (b Bar) LowerWick() float64 {
	return math.Min(b.Open, b.Close) - b.Low
}

// IsBullish reports whether the bar closed above its open.
func (b Bar) IsBullish() bool {
	return b.Close > b.Open
}

// IsBearish reports whether the bar closed below its open.
func (b Bar) IsBearish() bool {
	return b.Close < b.Open
}

// Highs extracts the high column from a bar series.
func Highs(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low column from a bar series.
func Lows(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

// Closes extracts the close column from a bar series.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
