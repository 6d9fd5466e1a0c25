package engine

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pattern-engine/internal/analysis"
	"pattern-engine/internal/filters"
	"pattern-engine/internal/market"
	"pattern-engine/internal/patterns"
	"pattern-engine/internal/scoring"
)

func newTestEngine() *Engine {
	scorer := scoring.NewScorer()
	return New(
		patterns.NewAllDetectors(scorer),
		filters.NewCorrelationFilter(zerolog.Nop()),
		filters.NewConsistencyFilter(scorer, zerolog.Nop()),
		zerolog.Nop(),
	)
}

func constantSeries(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func validTimeframeData(bars []market.Bar, rsi, upper float64) market.TimeframeData {
	n := len(bars)
	return market.TimeframeData{
		Bars: bars,
		RSI:  rsi,
		MACD: market.MACDSeries{
			MACD:      constantSeries(n, -0.3),
			Signal:    constantSeries(n, -0.2),
			Histogram: constantSeries(n, -0.1),
		},
		Bollinger: market.BollingerSeries{
			Upper:  constantSeries(n, upper),
			Middle: constantSeries(n, upper*0.97),
			Lower:  constantSeries(n, upper*0.94),
		},
	}
}

func shadowlessBars(n int, close float64) []market.Bar {
	bars := make([]market.Bar, n)
	for i := range bars {
		bars[i] = market.Bar{
			OpenTime: int64(i),
			Open:     close - 0.5,
			High:     close,
			Low:      close - 0.5,
			Close:    close,
		}
	}
	return bars
}

// reversalSnapshot satisfies the trend-reversal rule on every timeframe,
// producing a SELL candidate.
func reversalSnapshot(symbol string) *market.Snapshot {
	m5 := shadowlessBars(30, 100)
	m5[29] = market.Bar{Open: 100, High: 100.08, Low: 100, Close: 100}

	return &market.Snapshot{
		Symbol:    symbol,
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Data: map[market.Timeframe]market.TimeframeData{
			market.D1: validTimeframeData(shadowlessBars(30, 100), 70, 120),
			market.H4: validTimeframeData(shadowlessBars(30, 100), 70, 100),
			market.H1: validTimeframeData(shadowlessBars(30, 100), 70, 100),
			market.M5: validTimeframeData(m5, 70, 120),
		},
	}
}

func bearishOutlooks() analysis.OutlookSet {
	set := analysis.OutlookSet{}
	for _, tf := range market.RequiredTimeframes {
		set[tf] = analysis.Outlook{Trend: analysis.TrendDown, Momentum: analysis.MomentumBearish}
	}
	return set
}

// TestRunCycleAccepted verifies the full pipeline: detection, filter chain
// acceptance and final confidence.
func TestRunCycleAccepted(t *testing.T) {
	e := newTestEngine()

	evals := e.RunCycle(reversalSnapshot("USDJPY"), FilterContext{
		Outlooks: bearishOutlooks(),
	})

	if len(evals) != 1 {
		t.Fatalf("Expected exactly one candidate, got %d", len(evals))
	}
	eval := evals[0]
	if eval.Result.PatternNumber != patterns.PatternTrendReversal {
		t.Errorf("Expected trend reversal, got pattern %d", eval.Result.PatternNumber)
	}
	if !eval.Accepted {
		t.Fatalf("Signal should pass both filters: %+v", eval.Decisions)
	}
	if math.Abs(eval.FinalConfidence-0.8) > 1e-9 {
		t.Errorf("Expected final confidence 0.8, got %f", eval.FinalConfidence)
	}
	if len(eval.Decisions) != 2 {
		t.Fatalf("Expected two filter decisions, got %d", len(eval.Decisions))
	}
	if eval.Decisions[0].Filter != "correlation" || eval.Decisions[1].Filter != "consistency" {
		t.Error("Filter chain order must be correlation then consistency")
	}
}

// TestRunCycleCorrelationShortCircuit verifies a correlation rejection
// skips the consistency filter.
func TestRunCycleCorrelationShortCircuit(t *testing.T) {
	e := newTestEngine()

	evals := e.RunCycle(reversalSnapshot("EURUSD"), FilterContext{
		Correlations:  filters.CorrelationMatrix{"EURUSD": {"GBPUSD": 0.9}},
		OpenPositions: []filters.Position{{Symbol: "GBPUSD", Direction: patterns.Sell}},
		Outlooks:      bearishOutlooks(),
	})

	if len(evals) != 1 {
		t.Fatalf("Expected one candidate, got %d", len(evals))
	}
	eval := evals[0]
	if eval.Accepted {
		t.Fatal("Correlated same-direction position should reject the signal")
	}
	if len(eval.Decisions) != 1 {
		t.Errorf("Rejection should short-circuit the chain, got %d decisions", len(eval.Decisions))
	}
	if eval.FinalConfidence != 0 {
		t.Errorf("Rejected signal should have zero final confidence, got %f", eval.FinalConfidence)
	}
}

// TestRunCycleConsistencyRejection verifies the second filter fires when
// the outlook opposes the signal.
func TestRunCycleConsistencyRejection(t *testing.T) {
	e := newTestEngine()

	bullish := analysis.OutlookSet{}
	for _, tf := range market.RequiredTimeframes {
		bullish[tf] = analysis.Outlook{Trend: analysis.TrendUp, Momentum: analysis.MomentumBullish}
	}

	evals := e.RunCycle(reversalSnapshot("USDJPY"), FilterContext{Outlooks: bullish})

	if len(evals) != 1 {
		t.Fatalf("Expected one candidate, got %d", len(evals))
	}
	if evals[0].Accepted {
		t.Error("SELL against a fully bullish outlook should be rejected")
	}
	if len(evals[0].Decisions) != 2 {
		t.Errorf("Consistency rejection should come after correlation, got %d decisions", len(evals[0].Decisions))
	}
}

// TestRunCycleNoDetection verifies quiet snapshots produce no evaluations.
func TestRunCycleNoDetection(t *testing.T) {
	e := newTestEngine()

	snap := reversalSnapshot("USDJPY")
	td := snap.Data[market.D1]
	td.RSI = 50 // kills the D1 condition
	snap.Data[market.D1] = td

	if evals := e.RunCycle(snap, FilterContext{Outlooks: bearishOutlooks()}); len(evals) != 0 {
		t.Errorf("Expected no evaluations, got %d", len(evals))
	}
}

// stub collaborators for the runner

type stubProvider struct{ snap *market.Snapshot }

func (p *stubProvider) GetSnapshot(_ context.Context, symbol string) (*market.Snapshot, error) {
	s := *p.snap
	s.Symbol = symbol
	return &s, nil
}

type stubPortfolio struct{}

func (stubPortfolio) GetOpenPositions(context.Context) ([]filters.Position, error) {
	return nil, nil
}

func (stubPortfolio) GetCorrelations(context.Context) (filters.CorrelationMatrix, error) {
	return filters.CorrelationMatrix{}, nil
}

type collectSink struct {
	mu    sync.Mutex
	evals []Evaluation
}

func (s *collectSink) Publish(_ context.Context, eval Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evals = append(s.evals, eval)
	return nil
}

// TestRunnerPublishesAccepted verifies the runner fans out over symbols and
// publishes accepted signals to every sink.
func TestRunnerPublishesAccepted(t *testing.T) {
	e := newTestEngine()
	sink := &collectSink{}

	// The classifier reads the snapshot's bearish MACD histograms and flat
	// structure, which supports the SELL signal.
	runner := NewRunner(
		e,
		&stubProvider{snap: reversalSnapshot("")},
		stubPortfolio{},
		analysis.NewClassifier(),
		[]SignalSink{sink},
		[]string{"USDJPY", "EURUSD", "GBPUSD"},
		2,
		zerolog.Nop(),
	)

	runner.RunAll(context.Background())

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.evals) != 3 {
		t.Fatalf("Expected 3 published signals, got %d", len(sink.evals))
	}
	for _, eval := range sink.evals {
		if !eval.Accepted {
			t.Error("Only accepted evaluations should be published")
		}
	}
}
