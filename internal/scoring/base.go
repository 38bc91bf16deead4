package scoring

import (
	"github.com/aristath/sepascan/internal/config"
	"github.com/aristath/sepascan/internal/domain"
	"github.com/aristath/sepascan/pkg/formulas"
)

// Score contributions on top of the 80-point quality pass.
const (
	baseScorePass            = 80.0
	baseScoreShallowBonus    = 10.0
	baseScoreModerateBonus   = 5.0
	baseScorePriorRunBonus   = 10.0
	baseScorePriorRunPenalty = -20.0
	baseScoreTightnessBonus  = 10.0
	baseScoreClosesBonus     = 10.0

	// Last two weeks of the base, used for the tightness bonus.
	contractionTailDays = 10
)

// BaseScorer grades the quality of the identified consolidation.
type BaseScorer struct {
	cfg *config.Config
}

// NewBaseScorer creates a new base quality scorer
func NewBaseScorer(cfg *config.Config) *BaseScorer {
	return &BaseScorer{cfg: cfg}
}

// Calculate returns 0 when the base fails the quality bounds, which are
// tighter than the identification bounds. A passing base starts at 80 and
// collects bonuses for shallow depth, a strong prior run, range contraction
// into the end of the base, and closes holding the upper part of the range.
// A weak prior run is penalized; an unmeasurable one is neutral.
func (bs *BaseScorer) Calculate(s domain.Series, b *domain.Base, run *domain.PriorRun) float64 {
	if b == nil {
		return 0.0
	}
	if b.LengthWeeks < bs.cfg.Scoring.QualityMinWeeks || b.LengthWeeks > bs.cfg.Scoring.QualityMaxWeeks {
		return 0.0
	}
	if b.DepthPct > bs.cfg.Scoring.QualityMaxDepth {
		return 0.0
	}

	score := baseScorePass

	if b.DepthPct <= bs.cfg.Scoring.ShallowDepthPct {
		score += baseScoreShallowBonus
	} else if b.DepthPct <= bs.cfg.Scoring.ModerateDepthPct {
		score += baseScoreModerateBonus
	}

	if run != nil {
		if run.Pct >= bs.cfg.Base.StrongPriorRunPct {
			score += baseScorePriorRunBonus
		} else {
			score += baseScorePriorRunPenalty
		}
	}

	tight, upper := bs.tightnessBonuses(s, b)
	if tight {
		score += baseScoreTightnessBonus
	}
	if upper {
		score += baseScoreClosesBonus
	}

	return formulas.Clamp(score, 0, 100)
}

// tightnessBonuses evaluates the two elite-base signals: the last two weeks
// of the base trading in less than half the full base range, and the last
// two weekly closes sitting in the top 40% of that range.
func (bs *BaseScorer) tightnessBonuses(s domain.Series, b *domain.Base) (bool, bool) {
	bars := s.Window(b.StartIndex, b.EndIndex)
	if len(bars) < 5 {
		return false, false
	}
	baseRange := b.High - b.Low
	if baseRange <= 0 {
		return false, false
	}

	tailStart := len(bars) - contractionTailDays
	if tailStart < 0 {
		tailStart = 0
	}
	tail := bars[tailStart:]
	tailRange := domain.HighestHigh(tail) - domain.LowestLow(tail)
	tight := tailRange/baseRange < bs.cfg.Scoring.RangeContractionTight

	upperBound := b.Low + 0.6*baseRange
	weekAgo := bars[len(bars)-5].Close
	last := bars[len(bars)-1].Close
	upper := weekAgo >= upperBound && last >= upperBound

	return tight, upper
}
