package patterns

import (
	"sync"

	"pattern-engine/internal/market"
	"pattern-engine/internal/scoring"
)

// Detector evaluates one rule across the four required timeframes. A
// detection is emitted only when every timeframe satisfies the rule in the
// same direction. Detectors hold no mutable state and may run concurrently
// with each other and with themselves.
type Detector struct {
	def    Definition
	rule   Rule
	scorer *scoring.Scorer
}

// NewDetector builds a detector from a definition and its rule.
func NewDetector(def Definition, rule Rule, scorer *scoring.Scorer) *Detector {
	return &Detector{def: def, rule: rule, scorer: scorer}
}

// Definition returns the detector's static pattern metadata.
func (d *Detector) Definition() Definition { return d.def }

// Detect evaluates the snapshot and returns a result, or nil when the
// pattern is absent or the snapshot is invalid. Timeframes are evaluated
// concurrently; the all-timeframes AND is the only synchronization point.
func (d *Detector) Detect(snap *market.Snapshot) *DetectionResult {
	if snap == nil || snap.Validate(d.rule.MinBars()) != nil {
		return nil
	}

	outcomes := make(map[market.Timeframe]Outcome, len(market.RequiredTimeframes))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, tf := range market.RequiredTimeframes {
		wg.Add(1)
		go func(tf market.Timeframe) {
			defer wg.Done()
			out := d.rule.Evaluate(snap.Data[tf], tf)
			mu.Lock()
			outcomes[tf] = out
			mu.Unlock()
		}(tf)
	}
	wg.Wait()

	bullish, bearish := true, true
	for _, tf := range market.RequiredTimeframes {
		out := outcomes[tf]
		bullish = bullish && out.Bullish
		bearish = bearish && out.Bearish
	}

	var direction Direction
	switch {
	case bullish:
		direction = Buy
	case bearish:
		direction = Sell
	default:
		return nil
	}

	met := make(map[market.Timeframe]bool, len(market.RequiredTimeframes))
	for _, tf := range market.RequiredTimeframes {
		met[tf] = true
	}

	return &DetectionResult{
		PatternNumber: d.def.Number,
		Pattern:       d.def.Name,
		Symbol:        snap.Symbol,
		Direction:     direction,
		ConditionsMet: met,
		Confidence:    d.scorer.Score(met, d.def.BaseConfidence, d.def.Family),
		DetectedAt:    snap.Timestamp,
		Snapshot:      snap,
	}
}

// NewAllDetectors builds the full detector set from the static definition
// table, in pattern-number order.
func NewAllDetectors(scorer *scoring.Scorer) []*Detector {
	rules := map[int]Rule{
		PatternTrendReversal:   NewTrendReversalRule(),
		PatternEngulfing:       NewEngulfingRule(),
		PatternMarubozu:        NewMarubozuRule(),
		PatternThreeSoldiers:   NewThreeSoldiersRule(),
		PatternDoubleTopBottom: NewDoubleTopBottomRule(),
		PatternTripleTopBottom: NewTripleTopBottomRule(),
	}

	detectors := make([]*Detector, 0, len(definitions))
	for _, def := range definitions {
		detectors = append(detectors, NewDetector(def, rules[def.Number], scorer))
	}
	return detectors
}
