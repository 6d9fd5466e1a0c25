package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pattern-engine/internal/analysis"
	"pattern-engine/internal/filters"
	"pattern-engine/internal/market"
)

// SnapshotProvider supplies the multi-timeframe snapshot for one symbol.
// The upstream data pipeline owns indicator computation; the engine only
// consumes its output.
type SnapshotProvider interface {
	GetSnapshot(ctx context.Context, symbol string) (*market.Snapshot, error)
}

// PortfolioProvider supplies the open positions and the correlation matrix
// used by the correlation filter.
type PortfolioProvider interface {
	GetOpenPositions(ctx context.Context) ([]filters.Position, error)
	GetCorrelations(ctx context.Context) (filters.CorrelationMatrix, error)
}

// SignalSink receives accepted evaluations for persistence or delivery.
type SignalSink interface {
	Publish(ctx context.Context, eval Evaluation) error
}

// Runner drives detection cycles across a symbol list with a bounded worker
// pool. Cycles across symbols are independent and run in parallel.
type Runner struct {
	engine     *Engine
	provider   SnapshotProvider
	portfolio  PortfolioProvider
	classifier *analysis.Classifier
	sinks      []SignalSink
	symbols    []string
	workers    int
	logger     zerolog.Logger
}

// NewRunner creates a runner. workers below 1 defaults to 4.
func NewRunner(
	eng *Engine,
	provider SnapshotProvider,
	portfolio PortfolioProvider,
	classifier *analysis.Classifier,
	sinks []SignalSink,
	symbols []string,
	workers int,
	logger zerolog.Logger,
) *Runner {
	if workers < 1 {
		workers = 4
	}
	return &Runner{
		engine:     eng,
		provider:   provider,
		portfolio:  portfolio,
		classifier: classifier,
		sinks:      sinks,
		symbols:    symbols,
		workers:    workers,
		logger:     logger.With().Str("component", "runner").Logger(),
	}
}

// RunAll executes one detection cycle for every configured symbol. The
// portfolio context is fetched once per run and shared across symbols.
func (r *Runner) RunAll(ctx context.Context) {
	start := time.Now()

	positions, err := r.portfolio.GetOpenPositions(ctx)
	if err != nil {
		r.logger.Warn().Err(err).Msg("open positions unavailable, correlation filter degraded")
	}
	correlations, err := r.portfolio.GetCorrelations(ctx)
	if err != nil {
		r.logger.Warn().Err(err).Msg("correlation matrix unavailable, correlation filter degraded")
	}

	jobs := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				r.runSymbol(ctx, symbol, correlations, positions)
			}
		}()
	}

	for _, symbol := range r.symbols {
		select {
		case jobs <- symbol:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		}
	}
	close(jobs)
	wg.Wait()

	r.logger.Info().
		Int("symbols", len(r.symbols)).
		Dur("elapsed", time.Since(start)).
		Msg("detection cycle complete")
}

// runSymbol executes the cycle for one symbol and publishes accepted
// signals.
func (r *Runner) runSymbol(ctx context.Context, symbol string, correlations filters.CorrelationMatrix, positions []filters.Position) {
	snap, err := r.provider.GetSnapshot(ctx, symbol)
	if err != nil {
		r.logger.Warn().Err(err).Str("symbol", symbol).Msg("snapshot unavailable, skipping cycle")
		return
	}

	fctx := FilterContext{
		Correlations:  correlations,
		OpenPositions: positions,
		Outlooks:      r.classifier.Classify(snap),
	}

	for _, eval := range r.engine.RunCycle(snap, fctx) {
		if !eval.Accepted {
			continue
		}
		for _, sink := range r.sinks {
			if err := sink.Publish(ctx, eval); err != nil {
				r.logger.Error().Err(err).
					Str("symbol", symbol).
					Str("pattern", eval.Result.Pattern).
					Msg("failed to publish signal")
			}
		}
	}
}
