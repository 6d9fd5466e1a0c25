// Package filters implements the post-detection signal filters: correlation
// suppression against open positions and timeframe consistency checking
// against an externally supplied trend/momentum outlook.
package filters

import "pattern-engine/internal/patterns"

// Decision is the outcome of one filter for one candidate signal. Rejected
// signals carry a reason; accepted signals may carry a reduced confidence.
type Decision struct {
	Filter             string  `json:"filter"`
	Accepted           bool    `json:"accepted"`
	Reason             string  `json:"reason,omitempty"`
	AdjustedConfidence float64 `json:"adjusted_confidence"`
}

// Position is an open position supplied by the portfolio collaborator.
type Position struct {
	Symbol    string             `json:"symbol"`
	Direction patterns.Direction `json:"direction"`
}

// CorrelationMatrix maps instrument pairs to their correlation. Lookup is
// symmetric: either orientation of the pair resolves.
type CorrelationMatrix map[string]map[string]float64

// Lookup resolves the correlation between two symbols in either key
// orientation. A miss returns ok=false; callers treat that as 0.0.
func (m CorrelationMatrix) Lookup(a, b string) (float64, bool) {
	if row, ok := m[a]; ok {
		if v, ok := row[b]; ok {
			return v, true
		}
	}
	if row, ok := m[b]; ok {
		if v, ok := row[a]; ok {
			return v, true
		}
	}
	return 0, false
}
