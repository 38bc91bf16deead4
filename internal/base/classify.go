package base

import (
	"github.com/aristath/sepascan/internal/config"
	"github.com/aristath/sepascan/internal/domain"
)

// Classify assigns a base type from depth, prior run, and length. The
// high tight flag is checked first because its depth range overlaps both
// the flat base and the cup. A nil prior run counts as zero, which rules
// the high tight flag out.
func Classify(b *domain.Base, run *domain.PriorRun, cfg *config.Config) domain.BaseType {
	priorPct := 0.0
	if run != nil {
		priorPct = run.Pct
	}

	if priorPct >= cfg.Base.HTFMinPriorRunPct &&
		b.DepthPct <= cfg.Base.HTFMaxDepthPct &&
		b.LengthWeeks <= cfg.Base.HTFMaxLengthWeeks {
		return domain.HighTightFlag{FlagDays: b.Days()}
	}

	if b.DepthPct <= cfg.Base.FlatBaseMaxDepth {
		return domain.FlatBase{}
	}

	if b.DepthPct <= cfg.Scoring.QualityMaxDepth {
		return domain.Cup{HandleDays: cfg.Pivot.HandleDays}
	}

	return domain.StandardBase{}
}
