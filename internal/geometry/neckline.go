package geometry

import "math"

// NecklineOK validates the connecting level between the peaks or troughs of
// a top/bottom formation. The slope is (last-first)/count over the
// intermediate points; a neckline steeper than tolerance*referenceClose
// breaks the formation's symmetry and is rejected.
func NecklineOK(points []float64, tolerance, referenceClose float64) bool {
	if len(points) == 0 {
		return false
	}
	if len(points) == 1 {
		return true
	}

	slope := (points[len(points)-1] - points[0]) / float64(len(points))
	return math.Abs(slope) <= tolerance*referenceClose
}
