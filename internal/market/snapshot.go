package market

import (
	"fmt"
	"time"
)

// Timeframe represents a chart sampling granularity.
type Timeframe string

const (
	D1 Timeframe = "D1"
	H4 Timeframe = "H4"
	H1 Timeframe = "H1"
	M5 Timeframe = "M5"
)

// RequiredTimeframes is the exact timeframe set every detector needs.
var RequiredTimeframes = []Timeframe{D1, H4, H1, M5}

// MACDSeries holds the MACD line, signal line and histogram, time-aligned
// with the bar series.
type MACDSeries struct {
	MACD      []float64 `json:"macd"`
	Signal    []float64 `json:"signal"`
	Histogram []float64 `json:"histogram"`
}

// BollingerSeries holds the three Bollinger bands, time-aligned with the
// bar series.
type BollingerSeries struct {
	Upper  []float64 `json:"upper"`
	Middle []float64 `json:"middle"`
	Lower  []float64 `json:"lower"`
}

// TimeframeData holds the price series and indicators for one timeframe.
// RSI is the current scalar value; MACD and Bollinger are aligned series.
// The remaining indicators are pattern-specific and may be empty.
type TimeframeData struct {
	Bars      []Bar           `json:"bars"`
	RSI       float64         `json:"rsi"`
	MACD      MACDSeries      `json:"macd"`
	Bollinger BollingerSeries `json:"bollinger_bands"`
	SMA20     []float64       `json:"sma_20,omitempty"`
	EMA12     []float64       `json:"ema_12,omitempty"`
	EMA26     []float64       `json:"ema_26,omitempty"`
	ATR       []float64       `json:"atr,omitempty"`
	AvgVolume float64         `json:"avg_volume,omitempty"`
}

// LastBar returns the most recent bar, or false when the series is empty.
func (td TimeframeData) LastBar() (Bar, bool) {
	if len(td.Bars) == 0 {
		return Bar{}, false
	}
	return td.Bars[len(td.Bars)-1], true
}

// LastBars returns the most recent n bars in time order, or false when the
// series is shorter than n.
func (td TimeframeData) LastBars(n int) ([]Bar, bool) {
	if len(td.Bars) < n {
		return nil, false
	}
	return td.Bars[len(td.Bars)-n:], true
}

// CurrentBollingerUpper returns the latest upper band value, or false when
// the band series is empty.
func (td TimeframeData) CurrentBollingerUpper() (float64, bool) {
	if len(td.Bollinger.Upper) == 0 {
		return 0, false
	}
	return td.Bollinger.Upper[len(td.Bollinger.Upper)-1], true
}

// Snapshot is the multi-timeframe view of one symbol at one evaluation
// instant. It is a read-only input to the detection cycle.
type Snapshot struct {
	Symbol    string                      `json:"symbol"`
	Timestamp time.Time                   `json:"timestamp"`
	Data      map[Timeframe]TimeframeData `json:"data"`
}

// Validate checks that all four required timeframes are present, each with
// at least minBars bars and the mandatory indicators. A snapshot that fails
// validation invalidates the whole detection, not a single timeframe.
func (s *Snapshot) Validate(minBars int) error {
	if s == nil || len(s.Data) == 0 {
		return fmt.Errorf("snapshot is empty")
	}
	for _, tf := range RequiredTimeframes {
		td, ok := s.Data[tf]
		if !ok {
			return fmt.Errorf("missing timeframe %s", tf)
		}
		if len(td.Bars) < minBars {
			return fmt.Errorf("timeframe %s has %d bars, need %d", tf, len(td.Bars), minBars)
		}
		if len(td.Bollinger.Upper) == 0 || len(td.Bollinger.Middle) == 0 || len(td.Bollinger.Lower) == 0 {
			return fmt.Errorf("timeframe %s missing bollinger bands", tf)
		}
		if len(td.MACD.MACD) == 0 || len(td.MACD.Signal) == 0 || len(td.MACD.Histogram) == 0 {
			return fmt.Errorf("timeframe %s missing macd series", tf)
		}
	}
	return nil
}
