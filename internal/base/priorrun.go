package base

import (
	"github.com/aristath/sepascan/internal/config"
	"github.com/aristath/sepascan/internal/domain"
)

// PriorRun measures the advance leading into the base: the percent gain
// from the lowest low of the lookback window strictly before the base start
// up to the base high. Returns nil when fewer than the minimum number of
// bars precede the base, so a base at the very start of the history simply
// has no measurable prior run.
func PriorRun(s domain.Series, b *domain.Base, cfg *config.Config) *domain.PriorRun {
	if b == nil || b.StartIndex <= 0 {
		return nil
	}

	start := b.StartIndex - cfg.Base.PriorRunDays
	if start < 0 {
		start = 0
	}
	before := s.Window(start, b.StartIndex-1)
	if len(before) < cfg.Base.PriorRunMinBars {
		return nil
	}

	lowest := domain.LowestLow(before)
	if lowest <= 0 {
		return nil
	}

	return &domain.PriorRun{
		LowestLow:    lowest,
		LookbackDays: cfg.Base.PriorRunDays,
		Pct:          (b.High - lowest) / lowest * 100.0,
	}
}
