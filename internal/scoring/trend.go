// Package scoring implements the five component scorers and the composite
// grade aggregation.
package scoring

import (
	"github.com/aristath/sepascan/internal/config"
	"github.com/aristath/sepascan/internal/trend"
)

// TrendScorer grades trend strength by how far price sits above the 200-day
// moving average.
type TrendScorer struct {
	cfg *config.Config
}

// NewTrendScorer creates a new trend scorer
func NewTrendScorer(cfg *config.Config) *TrendScorer {
	return &TrendScorer{cfg: cfg}
}

// Calculate returns 0 when the trend template failed. Otherwise the score
// comes from the distance tier table, first matching tier from the top
// wins; a price below the 200 SMA scores 0.
func (ts *TrendScorer) Calculate(a trend.Assessment) float64 {
	if !a.Stage2 {
		return 0.0
	}
	for _, tier := range ts.cfg.Trend.DistanceTiers {
		if a.PctAbove200 >= tier.MinDistancePct {
			return tier.Score
		}
	}
	return 0.0
}
