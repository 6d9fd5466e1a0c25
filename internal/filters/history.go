package filters

import "sync"

const (
	historyCap  = 100
	trendWindow = 10
	trendDelta  = 0.10
)

// History is a bounded rolling record of filter decisions kept for
// diagnostics. It never feeds back into filtering logic. Multiple detection
// cycles may overlap, so access is mutex-guarded.
type History struct {
	mu      sync.Mutex
	entries []Decision
}

// Record appends a decision, evicting the oldest entry beyond capacity.
func (h *History) Record(d Decision) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, d)
	if len(h.entries) > historyCap {
		h.entries = h.entries[len(h.entries)-historyCap:]
	}
}

// Stats summarizes the recorded decisions.
type Stats struct {
	Total            int     `json:"total"`
	FilteredRatio    float64 `json:"filtered_ratio"`
	MostCommonReason string  `json:"most_common_reason,omitempty"`
	Trend            string  `json:"trend"` // rising, falling or stable
}

// Stats computes the filtered ratio, the dominant rejection reason and a
// trend classification of the ratio over the last ten decisions: rising or
// falling when the recent ratio departs from the overall ratio by more than
// ten points, stable otherwise.
func (h *History) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := Stats{Total: len(h.entries), Trend: "stable"}
	if s.Total == 0 {
		return s
	}

	rejected := 0
	reasons := make(map[string]int)
	for _, d := range h.entries {
		if !d.Accepted {
			rejected++
			reasons[d.Reason]++
		}
	}
	s.FilteredRatio = float64(rejected) / float64(s.Total)

	// Ties break lexicographically so repeated calls report the same reason.
	best := 0
	for reason, n := range reasons {
		if n > best || (n == best && reason < s.MostCommonReason) {
			best = n
			s.MostCommonReason = reason
		}
	}

	if s.Total >= trendWindow {
		recentRejected := 0
		recent := h.entries[len(h.entries)-trendWindow:]
		for _, d := range recent {
			if !d.Accepted {
				recentRejected++
			}
		}
		recentRatio := float64(recentRejected) / float64(trendWindow)
		switch {
		case recentRatio-s.FilteredRatio > trendDelta:
			s.Trend = "rising"
		case s.FilteredRatio-recentRatio > trendDelta:
			s.Trend = "falling"
		}
	}

	return s
}
