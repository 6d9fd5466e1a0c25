// Package engine orchestrates one detection cycle: concurrent pattern
// detection over a snapshot, followed by the fixed-order filter chain.
package engine

import (
	"sync"

	"github.com/rs/zerolog"

	"pattern-engine/internal/analysis"
	"pattern-engine/internal/filters"
	"pattern-engine/internal/market"
	"pattern-engine/internal/patterns"
)

// FilterContext carries the auxiliary inputs the filter chain needs for one
// cycle.
type FilterContext struct {
	Correlations  filters.CorrelationMatrix
	OpenPositions []filters.Position
	Outlooks      analysis.OutlookSet
}

// Evaluation pairs a detection with its filter decisions. FinalConfidence
// reflects any correlation damping; it is 0 for rejected signals.
type Evaluation struct {
	Result          *patterns.DetectionResult
	Decisions       []filters.Decision
	Accepted        bool
	FinalConfidence float64
}

// Engine runs the detector set and the filter chain. Detectors are pure and
// run concurrently; the filters run in a fixed order (correlation first,
// then consistency) because a correlation rejection short-circuits further
// work for that signal.
type Engine struct {
	detectors   []*patterns.Detector
	correlation *filters.CorrelationFilter
	consistency *filters.ConsistencyFilter
	logger      zerolog.Logger

	// One in-flight cycle per symbol: overlapping cycles would interleave
	// the filter history writes. Entries are never removed; the map stays
	// bounded by the configured symbol list.
	symbolMu sync.Map
}

// New creates an engine from its collaborators.
func New(
	detectors []*patterns.Detector,
	correlation *filters.CorrelationFilter,
	consistency *filters.ConsistencyFilter,
	logger zerolog.Logger,
) *Engine {
	return &Engine{
		detectors:   detectors,
		correlation: correlation,
		consistency: consistency,
		logger:      logger.With().Str("component", "engine").Logger(),
	}
}

// CorrelationStats returns the correlation filter's rolling statistics.
func (e *Engine) CorrelationStats() filters.Stats { return e.correlation.History().Stats() }

// ConsistencyStats returns the consistency filter's rolling statistics.
func (e *Engine) ConsistencyStats() filters.Stats { return e.consistency.History().Stats() }

// RunCycle evaluates one snapshot through every detector and filters the
// candidates. Cycles for the same symbol are serialized.
func (e *Engine) RunCycle(snap *market.Snapshot, fctx FilterContext) []Evaluation {
	if snap == nil {
		return nil
	}

	muIface, _ := e.symbolMu.LoadOrStore(snap.Symbol, &sync.Mutex{})
	mu := muIface.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	candidates := e.detect(snap)

	evaluations := make([]Evaluation, 0, len(candidates))
	for _, result := range candidates {
		evaluations = append(evaluations, e.filter(result, fctx))
	}
	return evaluations
}

// detect fans the detector set out over the snapshot and collects hits in
// pattern-number order.
func (e *Engine) detect(snap *market.Snapshot) []*patterns.DetectionResult {
	results := make([]*patterns.DetectionResult, len(e.detectors))
	var wg sync.WaitGroup

	for i, d := range e.detectors {
		wg.Add(1)
		go func(i int, d *patterns.Detector) {
			defer wg.Done()
			results[i] = d.Detect(snap)
		}(i, d)
	}
	wg.Wait()

	var hits []*patterns.DetectionResult
	for _, r := range results {
		if r != nil {
			hits = append(hits, r)
			e.logger.Debug().
				Str("symbol", r.Symbol).
				Str("pattern", r.Pattern).
				Float64("confidence", r.Confidence).
				Msg("pattern detected")
		}
	}
	return hits
}

// filter applies the chain to one candidate. A correlation rejection stops
// before the consistency check.
func (e *Engine) filter(result *patterns.DetectionResult, fctx FilterContext) Evaluation {
	eval := Evaluation{Result: result}

	corrDecision := e.correlation.Apply(result, fctx.Correlations, fctx.OpenPositions)
	eval.Decisions = append(eval.Decisions, corrDecision)
	if !corrDecision.Accepted {
		e.logger.Info().
			Str("symbol", result.Symbol).
			Str("pattern", result.Pattern).
			Str("reason", corrDecision.Reason).
			Msg("signal rejected by correlation filter")
		return eval
	}

	consDecision := e.consistency.Apply(result, fctx.Outlooks)
	eval.Decisions = append(eval.Decisions, consDecision)
	if !consDecision.Accepted {
		e.logger.Info().
			Str("symbol", result.Symbol).
			Str("pattern", result.Pattern).
			Str("reason", consDecision.Reason).
			Msg("signal rejected by consistency filter")
		return eval
	}

	eval.Accepted = true
	eval.FinalConfidence = corrDecision.AdjustedConfidence
	return eval
}
