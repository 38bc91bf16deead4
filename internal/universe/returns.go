// Package universe implements the cycle-scoped cross-sectional ranking:
// every instrument contributes a 3-month return, and each one is then
// ranked against the frozen set.
package universe

import (
	"sync"

	"github.com/aristath/sepascan/internal/domain"
)

// ThreeMonthReturn is the total percent return over the lookback window.
// Returns nil when the series is too short or the anchor close is zero.
func ThreeMonthReturn(s domain.Series, lookbackDays int) *float64 {
	n := s.Len()
	if n < lookbackDays+1 {
		return nil
	}
	anchor := s.Bars[n-1-lookbackDays].Close
	if anchor == 0 {
		return nil
	}
	ret := (s.Bars[n-1].Close/anchor - 1) * 100.0
	return &ret
}

// Collector accumulates per-instrument returns during phase 1 of a cycle.
// Add is safe for concurrent workers; Freeze closes the collection and
// hands back the percentile table. No reads happen before Freeze.
type Collector struct {
	mu      sync.Mutex
	returns map[string]float64
	frozen  bool
}

// NewCollector creates an empty returns collector for one scan cycle.
func NewCollector() *Collector {
	return &Collector{returns: make(map[string]float64)}
}

// Add records one instrument's return. Calls after Freeze are ignored.
func (c *Collector) Add(symbol string, ret float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return
	}
	c.returns[symbol] = ret
}

// Freeze ends the accumulation phase and builds the percentile table.
// Fails with ErrEmptyUniverse when no instrument contributed a return.
func (c *Collector) Freeze() (*PercentileTable, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
	if len(c.returns) == 0 {
		return nil, domain.ErrEmptyUniverse
	}
	return newPercentileTable(c.returns), nil
}
