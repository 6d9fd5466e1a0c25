package filters

import (
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"pattern-engine/internal/patterns"
)

func signal(symbol string, dir patterns.Direction, confidence float64) *patterns.DetectionResult {
	return &patterns.DetectionResult{
		PatternNumber: patterns.PatternTrendReversal,
		Pattern:       "Trend Reversal",
		Symbol:        symbol,
		Direction:     dir,
		Confidence:    confidence,
	}
}

func testMatrix() CorrelationMatrix {
	return CorrelationMatrix{
		"EURUSD": {"GBPUSD": 0.85, "USDJPY": -0.4},
	}
}

// TestCorrelationReject verifies full rejection for a highly correlated
// open position in the same direction.
func TestCorrelationReject(t *testing.T) {
	f := NewCorrelationFilter(zerolog.Nop())

	open := []Position{{Symbol: "GBPUSD", Direction: patterns.Buy}}
	d := f.Apply(signal("EURUSD", patterns.Buy, 0.8), testMatrix(), open)

	if d.Accepted {
		t.Fatal("Should reject signal correlated 0.85 with same-direction position")
	}
	if !strings.Contains(d.Reason, "GBPUSD") || !strings.Contains(d.Reason, "0.85") {
		t.Errorf("Reason should cite the correlated instrument and value, got %q", d.Reason)
	}
}

// TestCorrelationSymmetricLookup verifies the reversed key orientation also
// resolves.
func TestCorrelationSymmetricLookup(t *testing.T) {
	f := NewCorrelationFilter(zerolog.Nop())

	// Matrix keyed EURUSD->GBPUSD, signal on GBPUSD
	open := []Position{{Symbol: "EURUSD", Direction: patterns.Buy}}
	d := f.Apply(signal("GBPUSD", patterns.Buy, 0.8), testMatrix(), open)

	if d.Accepted {
		t.Error("Symmetric lookup should find the correlation and reject")
	}
}

// TestCorrelationReduction verifies confidence damping below the rejection
// threshold.
func TestCorrelationReduction(t *testing.T) {
	f := NewCorrelationFilter(zerolog.Nop())

	open := []Position{{Symbol: "USDJPY", Direction: patterns.Buy}}
	d := f.Apply(signal("EURUSD", patterns.Buy, 0.8), testMatrix(), open)

	if !d.Accepted {
		t.Fatal("Correlation 0.4 should reduce confidence, not reject")
	}
	// 0.8 * (1 - 0.4*0.7) = 0.576
	if math.Abs(d.AdjustedConfidence-0.576) > 1e-9 {
		t.Errorf("Expected adjusted confidence 0.576, got %f", d.AdjustedConfidence)
	}
}

// TestCorrelationOppositeDirection verifies high correlation with an
// opposite-direction position does not reject.
func TestCorrelationOppositeDirection(t *testing.T) {
	f := NewCorrelationFilter(zerolog.Nop())

	open := []Position{{Symbol: "GBPUSD", Direction: patterns.Sell}}
	d := f.Apply(signal("EURUSD", patterns.Buy, 0.8), testMatrix(), open)

	if !d.Accepted {
		t.Error("Opposite-direction position should not trigger rejection")
	}
	// Damping still applies: 0.8 * (1 - 0.85*0.7) = 0.324
	if math.Abs(d.AdjustedConfidence-0.324) > 1e-9 {
		t.Errorf("Expected adjusted confidence 0.324, got %f", d.AdjustedConfidence)
	}
}

// TestCorrelationLookupMiss verifies a missing pair is treated as 0.0.
func TestCorrelationLookupMiss(t *testing.T) {
	f := NewCorrelationFilter(zerolog.Nop())

	open := []Position{{Symbol: "AUDNZD", Direction: patterns.Buy}}
	d := f.Apply(signal("EURUSD", patterns.Buy, 0.8), testMatrix(), open)

	if !d.Accepted {
		t.Fatal("Lookup miss should not suppress the signal")
	}
	if d.AdjustedConfidence != 0.8 {
		t.Errorf("Lookup miss should leave confidence unchanged, got %f", d.AdjustedConfidence)
	}
}

// TestCorrelationIdempotence verifies repeated application with unchanged
// inputs yields identical decisions.
func TestCorrelationIdempotence(t *testing.T) {
	f := NewCorrelationFilter(zerolog.Nop())

	open := []Position{{Symbol: "USDJPY", Direction: patterns.Buy}}
	sig := signal("EURUSD", patterns.Buy, 0.8)

	first := f.Apply(sig, testMatrix(), open)
	for i := 0; i < 5; i++ {
		again := f.Apply(sig, testMatrix(), open)
		if again != first {
			t.Fatalf("Decision changed on repeat: %+v vs %+v", again, first)
		}
	}
}

// TestCorrelationNoPositions verifies an empty portfolio passes everything
// through.
func TestCorrelationNoPositions(t *testing.T) {
	f := NewCorrelationFilter(zerolog.Nop())

	d := f.Apply(signal("EURUSD", patterns.Buy, 0.8), testMatrix(), nil)
	if !d.Accepted || d.AdjustedConfidence != 0.8 {
		t.Errorf("No open positions should accept unchanged, got %+v", d)
	}
}
