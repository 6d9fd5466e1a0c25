// Package patterns implements the multi-timeframe pattern detectors. Each
// detector evaluates one declarative rule across the four required
// timeframes and emits a detection result only when every timeframe passes.
package patterns

import "pattern-engine/internal/scoring"

// Definition holds the static metadata for one pattern. Definitions are
// built once at startup and never mutated.
type Definition struct {
	Number            int
	Name              string
	Priority          int
	Family            scoring.Family
	BaseConfidence    float64
	NotificationTitle string
	NotificationColor int
	TakeProfitRule    string
	StopLossRule      string
}

// Pattern numbers. The numbering is part of the persisted signal format.
const (
	PatternTrendReversal   = 1
	PatternEngulfing       = 2
	PatternMarubozu        = 3
	PatternThreeSoldiers   = 4
	PatternDoubleTopBottom = 5
	PatternTripleTopBottom = 6
)

var definitions = []Definition{
	{
		Number:            PatternTrendReversal,
		Name:              "Trend Reversal",
		Priority:          100,
		Family:            scoring.FamilyChart,
		BaseConfidence:    0.80,
		NotificationTitle: "Trend Reversal Detected",
		NotificationColor: 0xE74C3C,
		TakeProfitRule:    "bollinger_middle",
		StopLossRule:      "recent_swing_high",
	},
	{
		Number:            PatternEngulfing,
		Name:              "Engulfing",
		Priority:          80,
		Family:            scoring.FamilyCandle,
		BaseConfidence:    0.85,
		NotificationTitle: "Engulfing Pattern Detected",
		NotificationColor: 0x3498DB,
		TakeProfitRule:    "engulfing_body_projection",
		StopLossRule:      "engulfing_bar_extreme",
	},
	{
		Number:            PatternMarubozu,
		Name:              "Marubozu",
		Priority:          70,
		Family:            scoring.FamilyCandle,
		BaseConfidence:    0.75,
		NotificationTitle: "Marubozu Detected",
		NotificationColor: 0x9B59B6,
		TakeProfitRule:    "body_projection",
		StopLossRule:      "bar_open",
	},
	{
		Number:            PatternThreeSoldiers,
		Name:              "Three Soldiers",
		Priority:          75,
		Family:            scoring.FamilyCandle,
		BaseConfidence:    0.75,
		NotificationTitle: "Three Soldiers Detected",
		NotificationColor: 0x2ECC71,
		TakeProfitRule:    "third_bar_projection",
		StopLossRule:      "first_bar_open",
	},
	{
		Number:            PatternDoubleTopBottom,
		Name:              "Double Top/Bottom",
		Priority:          90,
		Family:            scoring.FamilyChart,
		BaseConfidence:    0.80,
		NotificationTitle: "Double Top/Bottom Detected",
		NotificationColor: 0xF39C12,
		TakeProfitRule:    "neckline_projection",
		StopLossRule:      "second_extremum",
	},
	{
		Number:            PatternTripleTopBottom,
		Name:              "Triple Top/Bottom",
		Priority:          95,
		Family:            scoring.FamilyChart,
		BaseConfidence:    0.85,
		NotificationTitle: "Triple Top/Bottom Detected",
		NotificationColor: 0xE67E22,
		TakeProfitRule:    "neckline_projection",
		StopLossRule:      "third_extremum",
	},
}

// Definitions returns the full static pattern table.
func Definitions() []Definition {
	return definitions
}

// DefinitionByNumber looks up a pattern definition by its number.
func DefinitionByNumber(number int) (Definition, bool) {
	for _, d := range definitions {
		if d.Number == number {
			return d, true
		}
	}
	return Definition{}, false
}
