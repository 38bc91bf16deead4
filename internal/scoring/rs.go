package scoring

import (
	"github.com/aristath/sepascan/pkg/formulas"
)

// rsNeutral is the score used when neither a universe percentile nor a
// benchmark comparison is available.
const rsNeutral = 50.0

// RSScorer grades relative strength. The universe percentile is the primary
// input; without one the scorer falls back to a benchmark-relative rating,
// and with no benchmark either it stays neutral.
type RSScorer struct{}

// NewRSScorer creates a new relative strength scorer
func NewRSScorer() *RSScorer {
	return &RSScorer{}
}

// Calculate resolves the RS score. percentile comes from the universe
// ranking for this cycle. stockReturn and benchReturn are cumulative
// fractional returns over the same lookback.
func (rs *RSScorer) Calculate(percentile *float64, stockReturn, benchReturn *float64) float64 {
	if percentile != nil {
		return *percentile
	}
	if stockReturn != nil && benchReturn != nil {
		rating := rsNeutral + (*stockReturn-*benchReturn)*100.0
		return formulas.Clamp(rating, 0, 100)
	}
	return rsNeutral
}
