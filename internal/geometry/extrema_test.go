package geometry

import "testing"

// TestFindLocalMaximaSawtooth verifies exact peak indices on a strictly
// alternating sawtooth series.
func TestFindLocalMaximaSawtooth(t *testing.T) {
	// Peaks at 3, 10 and 17, troughs in between.
	values := []float64{
		1, 2, 3, 9, 3, 2, 1, 2, 3, 4, 10, 4, 3, 2, 1, 2, 3, 11, 3, 2, 1,
	}

	maxima := FindLocalMaxima(values, 3)

	expected := []int{3, 10, 17}
	if len(maxima) != len(expected) {
		t.Fatalf("Expected %d maxima, got %d: %v", len(expected), len(maxima), maxima)
	}
	for i, idx := range expected {
		if maxima[i] != idx {
			t.Errorf("Maximum %d: expected index %d, got %d", i, idx, maxima[i])
		}
	}

	// Ascending order, no duplicates
	for i := 1; i < len(maxima); i++ {
		if maxima[i] <= maxima[i-1] {
			t.Errorf("Maxima not strictly ascending at position %d: %v", i, maxima)
		}
	}
}

// TestFindLocalMinimaSawtooth verifies trough detection on the same series.
func TestFindLocalMinimaSawtooth(t *testing.T) {
	values := []float64{
		5, 4, 3, 0.5, 3, 4, 5, 4, 3, 2, 0.2, 2, 3, 4, 5, 4, 3, 0.1, 3, 4, 5,
	}

	minima := FindLocalMinima(values, 3)

	expected := []int{3, 10, 17}
	if len(minima) != len(expected) {
		t.Fatalf("Expected %d minima, got %d: %v", len(expected), len(minima), minima)
	}
	for i, idx := range expected {
		if minima[i] != idx {
			t.Errorf("Minimum %d: expected index %d, got %d", i, idx, minima[i])
		}
	}
}

// TestFindLocalMaximaTies verifies that a tied plateau never qualifies.
func TestFindLocalMaximaTies(t *testing.T) {
	values := []float64{1, 5, 5, 1, 1, 1, 1}

	maxima := FindLocalMaxima(values, 3)

	if len(maxima) != 0 {
		t.Errorf("Tied plateau should produce no maxima, got %v", maxima)
	}
}

// TestFindLocalMaximaEdges verifies behavior near series boundaries where
// the window is truncated.
func TestFindLocalMaximaEdges(t *testing.T) {
	values := []float64{9, 1, 2, 3, 4}

	maxima := FindLocalMaxima(values, 3)

	// Index 0 dominates its truncated window; index 4 is beaten by index 0
	// being outside its window but 3 within it is smaller, so 4 qualifies.
	expected := map[int]bool{0: true, 4: true}
	for _, idx := range maxima {
		if !expected[idx] {
			t.Errorf("Unexpected maximum at index %d", idx)
		}
	}
	if len(maxima) != 2 {
		t.Errorf("Expected maxima at 0 and 4, got %v", maxima)
	}
}

func BenchmarkFindLocalMaxima(b *testing.B) {
	values := make([]float64, 500)
	for i := range values {
		values[i] = float64(i % 7)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		FindLocalMaxima(values, 3)
	}
}
