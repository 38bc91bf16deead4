package universe

import "sort"

// PercentileTable is the frozen cross-section of one cycle. A percentile is
// the share of the universe with a strictly smaller return, in [0,100], so
// tied returns receive the same percentile.
type PercentileTable struct {
	returns map[string]float64
	sorted  []float64
}

func newPercentileTable(returns map[string]float64) *PercentileTable {
	sorted := make([]float64, 0, len(returns))
	for _, r := range returns {
		sorted = append(sorted, r)
	}
	sort.Float64s(sorted)
	return &PercentileTable{returns: returns, sorted: sorted}
}

// Size returns the number of instruments in the ranked universe.
func (t *PercentileTable) Size() int {
	return len(t.sorted)
}

// Return looks up the 3-month return an instrument contributed, if any.
func (t *PercentileTable) Return(symbol string) *float64 {
	r, ok := t.returns[symbol]
	if !ok {
		return nil
	}
	return &r
}

// Percentile ranks an instrument against the frozen universe. Returns nil
// for instruments that never contributed a return, which then fall back to
// benchmark-relative scoring.
func (t *PercentileTable) Percentile(symbol string) *float64 {
	r, ok := t.returns[symbol]
	if !ok {
		return nil
	}
	// Count of strictly smaller returns.
	below := sort.SearchFloat64s(t.sorted, r)
	pct := float64(below) / float64(len(t.sorted)) * 100.0
	return &pct
}
