package base

import (
	"github.com/aristath/sepascan/internal/config"
	"github.com/aristath/sepascan/internal/domain"
	"github.com/aristath/sepascan/pkg/formulas"
)

// Pivot derives the buy point from the base, conditioned on its type.
//
// Flat and standard bases use the highest high of the window after dropping
// spike bars. A bar is a spike when its high exceeds mean + K*std of the
// window's highs, but bars inside the last few days of the base are never
// dropped since a spike at the edge may be the breakout itself. The source
// tag records whether the filter removed anything.
//
// The cup uses only the handle, the last few days of the window. The high
// tight flag uses the whole flag.
func Pivot(s domain.Series, b *domain.Base, baseType domain.BaseType, cfg *config.Config) domain.Pivot {
	bars := s.Window(b.StartIndex, b.EndIndex)
	highs := make([]float64, len(bars))
	for i, bar := range bars {
		highs[i] = bar.High
	}

	switch t := baseType.(type) {
	case domain.Cup:
		handle := t.HandleDays
		if handle > len(highs) {
			handle = len(highs)
		}
		if handle >= 2 {
			return domain.Pivot{
				Price:  maxOf(highs[len(highs)-handle:]),
				Source: domain.PivotCupHandle,
			}
		}
		return domain.Pivot{Price: maxOf(highs), Source: domain.PivotCupHandle}

	case domain.HighTightFlag:
		return domain.Pivot{Price: maxOf(highs), Source: domain.PivotHTFFlag}

	default:
		price, filtered := spikeFilteredMax(highs, cfg)
		source := domain.PivotFlatMax
		if filtered {
			source = domain.PivotFlatMaxSpikeFiltered
		}
		return domain.Pivot{Price: price, Source: source}
	}
}

// spikeFilteredMax returns the highest high after excluding spike bars, and
// whether any bar was actually excluded. Exempt bars near the end still
// contribute to the mean and std; they are only immune from exclusion.
func spikeFilteredMax(highs []float64, cfg *config.Config) (float64, bool) {
	if len(highs) < 3 {
		return maxOf(highs), false
	}

	std := formulas.StdDev(highs)
	if std <= 0 {
		return maxOf(highs), false
	}
	threshold := formulas.Mean(highs) + cfg.Pivot.SpikeStdDevs*std

	exemptFrom := len(highs) - cfg.Pivot.SpikeIgnoreLast
	if exemptFrom < 1 {
		exemptFrom = 1
	}

	kept := make([]float64, 0, len(highs))
	dropped := false
	for i, h := range highs {
		if h > threshold && i < exemptFrom {
			dropped = true
			continue
		}
		kept = append(kept, h)
	}
	if len(kept) == 0 {
		return maxOf(highs), false
	}
	return maxOf(kept), dropped
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
