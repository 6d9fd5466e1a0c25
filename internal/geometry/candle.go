package geometry

import "pattern-engine/internal/market"

// BodyRatio returns |close-open| / (high-low). The second return value is
// false for degenerate bars where high equals low.
func BodyRatio(bar market.Bar) (float64, bool) {
	r := bar.Range()
	if r == 0 {
		return 0, false
	}
	return bar.Body() / r, true
}

// WickAbsence reports whether the bar has negligible shadows. Both wick/range
// ratios must be at or below maxRatio, or one wick may be nearly flat
// (ratio <= 0.05) while the other stretches to maxRatio*1.5. The asymmetric
// branch matches the historical thresholds exactly.
func WickAbsence(bar market.Bar, maxRatio float64) bool {
	r := bar.Range()
	if r == 0 {
		return false
	}

	upper := bar.UpperWick() / r
	lower := bar.LowerWick() / r

	if upper <= maxRatio && lower <= maxRatio {
		return true
	}
	if upper <= 0.05 && lower <= maxRatio*1.5 {
		return true
	}
	if lower <= 0.05 && upper <= maxRatio*1.5 {
		return true
	}
	return false
}

// HasShadow reports whether the bar carries an upper or lower shadow longer
// than minLength price units.
func HasShadow(bar market.Bar, minLength float64) bool {
	return bar.UpperWick() > minLength || bar.LowerWick() > minLength
}
