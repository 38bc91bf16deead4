package report

import (
	"sort"

	"github.com/aristath/sepascan/internal/domain"
)

// nearPivotPct bounds the pre-breakout view: price at or just under the
// pivot, within this percent.
const nearPivotPct = 2.0

// PreBreakout filters the cycle down to eligible instruments sitting at or
// just below their pivot and not yet broken out. These are the actionable
// setups of the cycle, sorted by power rank descending.
func PreBreakout(results []domain.Result) []domain.Result {
	var out []domain.Result
	for _, r := range results {
		if !r.Eligible || r.Breakout == nil {
			continue
		}
		if r.Breakout.InBreakout {
			continue
		}
		d := r.Breakout.DistanceToPivotPct
		if d > 0 || d < -nearPivotPct {
			continue
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		pi, pj := rankOf(out[i]), rankOf(out[j])
		if pi != pj {
			return pi > pj
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

func rankOf(r domain.Result) float64 {
	if r.PowerRank == nil {
		return 0
	}
	return *r.PowerRank
}
