// Package analysis classifies per-timeframe trend and momentum from market
// structure. The classification is deliberately independent of the pattern
// detectors' RSI and Bollinger predicates: it feeds the consistency filter,
// which cross-checks detections against it.
package analysis

import "pattern-engine/internal/market"

// TrendDirection classifies the price structure of one timeframe.
type TrendDirection string

const (
	TrendUp       TrendDirection = "uptrend"
	TrendDown     TrendDirection = "downtrend"
	TrendSideways TrendDirection = "sideways"
)

// Momentum classifies the MACD histogram state of one timeframe.
type Momentum string

const (
	MomentumBullish Momentum = "bullish"
	MomentumBearish Momentum = "bearish"
	MomentumNeutral Momentum = "neutral"
)

// Outlook is the trend/momentum classification of a single timeframe.
type Outlook struct {
	Trend    TrendDirection `json:"trend"`
	Momentum Momentum       `json:"momentum"`
}

// OutlookSet maps each timeframe to its classification.
type OutlookSet map[market.Timeframe]Outlook
