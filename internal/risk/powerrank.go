package risk

import (
	"github.com/aristath/sepascan/pkg/formulas"
)

// PowerRank blends the cross-sectional RS percentile with the magnitude of
// the advance into the base, half each. The prior run is capped so a single
// huge run cannot dominate the blend. A nil prior run counts as zero.
func PowerRank(rsPercentile float64, priorRunPct *float64, cap float64) float64 {
	run := 0.0
	if priorRunPct != nil {
		run = *priorRunPct
		if run > cap {
			run = cap
		}
	}
	return formulas.Round1(0.5*rsPercentile + 0.5*run)
}
