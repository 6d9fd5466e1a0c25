package patterns

import (
	"time"

	"pattern-engine/internal/market"
)

// Direction is the trade direction implied by a detected pattern.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// DetectionResult is produced only when all four timeframes pass a rule.
// Absence of a pattern is represented by a nil result, never by a
// zero-confidence one. Results are transient and never mutated.
type DetectionResult struct {
	PatternNumber int
	Pattern       string
	Symbol        string
	Direction     Direction
	ConditionsMet map[market.Timeframe]bool
	Confidence    float64
	DetectedAt    time.Time
	Snapshot      *market.Snapshot
}
