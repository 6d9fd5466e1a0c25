package scoring

import (
	"math"
	"testing"

	"pattern-engine/internal/market"
)

func allMet() map[market.Timeframe]bool {
	return map[market.Timeframe]bool{
		market.D1: true, market.H4: true, market.H1: true, market.M5: true,
	}
}

// TestScoreAllTimeframes verifies the reference scenario: base 0.8 with all
// four timeframes met scores exactly 0.8.
func TestScoreAllTimeframes(t *testing.T) {
	s := NewScorer()

	score := s.Score(allMet(), 0.8, FamilyChart)
	if math.Abs(score-0.8) > 1e-9 {
		t.Errorf("Expected score 0.8, got %f", score)
	}
}

// TestScoreChartClampFloor verifies chart patterns never report below 0.6.
func TestScoreChartClampFloor(t *testing.T) {
	s := NewScorer()

	met := map[market.Timeframe]bool{market.M5: true}
	score := s.Score(met, 0.8, FamilyChart)
	if score != 0.6 {
		t.Errorf("Expected clamped floor 0.6, got %f", score)
	}
}

// TestScoreCandleFullRange verifies candle patterns keep the full [0,1] range.
func TestScoreCandleFullRange(t *testing.T) {
	s := NewScorer()

	met := map[market.Timeframe]bool{market.M5: true}
	score := s.Score(met, 0.8, FamilyCandle)
	if math.Abs(score-0.08) > 1e-9 {
		t.Errorf("Expected unclamped 0.08, got %f", score)
	}

	if s.Score(map[market.Timeframe]bool{}, 0.8, FamilyCandle) != 0 {
		t.Error("No met timeframes should score 0 for candle patterns")
	}
}

// TestScoreMonotonic verifies the score never decreases as more timeframes
// are met.
func TestScoreMonotonic(t *testing.T) {
	s := NewScorer()

	order := []market.Timeframe{market.M5, market.H1, market.H4, market.D1}
	met := map[market.Timeframe]bool{}
	prev := 0.0
	for _, tf := range order {
		met[tf] = true
		score := s.Score(met, 0.85, FamilyCandle)
		if score < prev {
			t.Errorf("Score decreased from %f to %f after adding %s", prev, score, tf)
		}
		prev = score
	}
}

// TestScoreDeterminism verifies repeated calls are bit-identical. The weight
// sum must not depend on map iteration order, so every call over the same
// met map lands on a single float64 value.
func TestScoreDeterminism(t *testing.T) {
	s := NewScorer()

	seen := map[float64]int{}
	for i := 0; i < 10000; i++ {
		seen[s.Score(allMet(), 0.8, FamilyCandle)]++
	}
	if len(seen) != 1 {
		t.Fatalf("Score should be bit-identical across calls, got %d distinct values: %v", len(seen), seen)
	}

	first := s.Score(allMet(), 0.83, FamilyChart)
	for i := 0; i < 10; i++ {
		if s.Score(allMet(), 0.83, FamilyChart) != first {
			t.Fatal("Score should be deterministic for fixed inputs")
		}
	}
}

// TestSetWeightsValidation verifies weights must sum to 1.0 and cover all
// required timeframes.
func TestSetWeightsValidation(t *testing.T) {
	s := NewScorer()

	bad := map[market.Timeframe]float64{
		market.D1: 0.5, market.H4: 0.3, market.H1: 0.2, market.M5: 0.2,
	}
	if err := s.SetWeights(bad); err == nil {
		t.Error("Should reject weights summing to 1.2")
	}

	missing := map[market.Timeframe]float64{
		market.D1: 0.5, market.H4: 0.3, market.H1: 0.2,
	}
	if err := s.SetWeights(missing); err == nil {
		t.Error("Should reject weights missing a required timeframe")
	}

	good := map[market.Timeframe]float64{
		market.D1: 0.25, market.H4: 0.25, market.H1: 0.25, market.M5: 0.25,
	}
	if err := s.SetWeights(good); err != nil {
		t.Errorf("Should accept valid weights: %v", err)
	}
	if s.Weight(market.D1) != 0.25 {
		t.Error("Weight should reflect the override")
	}
}
