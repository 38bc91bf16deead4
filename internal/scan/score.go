package scan

import (
	"errors"
	"strings"

	"github.com/aristath/sepascan/internal/base"
	"github.com/aristath/sepascan/internal/domain"
	"github.com/aristath/sepascan/internal/risk"
	"github.com/aristath/sepascan/internal/scoring"
	"github.com/aristath/sepascan/internal/trend"
	"github.com/aristath/sepascan/internal/universe"
	"github.com/aristath/sepascan/pkg/formulas"
)

// scoreInstrument runs the full phase-2 pipeline for one prepared
// instrument against the frozen universe table.
func (e *Engine) scoreInstrument(p prepared, table *universe.PercentileTable) domain.Result {
	if p.err != nil {
		return rejectResult(p.series.Symbol, p.err.Error())
	}

	s := p.series
	ind := p.indicators

	assessment := trend.Classify(s, ind, e.cfg)

	b, err := base.Identify(s, ind, e.cfg)
	if err != nil && !errors.Is(err, domain.ErrNoValidBase) {
		return rejectResult(s.Symbol, err.Error())
	}
	run := base.PriorRun(s, b, e.cfg)

	elig := evaluateEligibility(s, assessment, b, e.cfg)
	if !elig.Eligible {
		return rejectResult(s.Symbol, strings.Join(elig.Reasons, "; "))
	}

	baseType := base.Classify(b, run, e.cfg)
	pivot := base.Pivot(s, b, baseType, e.cfg)

	price := s.Last().Close
	distance := formulas.Round2(scoring.DistanceToPivot(price, pivot.Price))
	inBreakout := price >= pivot.Price*(1+e.cfg.Pivot.BuyBufferPct/100.0)

	percentile := table.Percentile(s.Symbol)
	rs3m := table.Return(s.Symbol)

	var stockReturn, benchReturn *float64
	if rs3m != nil {
		r := *rs3m / 100.0
		stockReturn = &r
	}
	if e.benchmarkReturn != nil {
		r := *e.benchmarkReturn / 100.0
		benchReturn = &r
	}

	sig := e.volumeScorer.Check(s, b)
	breakoutCheck := e.breakoutScorer.Check(s, pivot.Price)

	scores := domain.ComponentScores{
		Trend:    e.trendScorer.Calculate(assessment),
		Base:     e.baseScorer.Calculate(s, b, run),
		RS:       e.rsScorer.Calculate(percentile, stockReturn, benchReturn),
		Volume:   e.volumeScorer.Calculate(sig),
		Breakout: e.breakoutScorer.Calculate(breakoutCheck, distance),
	}

	composite := scoring.Composite(scores, e.cfg)
	grade := scoring.GradeFor(composite, e.cfg)

	levels := risk.Levels(pivot.Price, ind, s, e.cfg)

	rsForRank := scores.RS
	powerRank := risk.PowerRank(rsForRank, priorRunPct(run), e.cfg.Risk.PowerRankCap)

	var priorPct *float64
	if run != nil {
		v := formulas.Round1(run.Pct)
		priorPct = &v
	}

	result := domain.Result{
		Symbol:         s.Symbol,
		Eligible:       true,
		Grade:          grade,
		CompositeScore: composite,
		TrendScore:     scores.Trend,
		BaseScore:      scores.Base,
		RSScore:        scores.RS,
		VolumeScore:    scores.Volume,
		BreakoutScore:  scores.Breakout,
		PowerRank:      &powerRank,

		Base: &domain.BaseBlock{
			Type:        baseType.Label(),
			LengthWeeks: formulas.Round1(b.LengthWeeks),
			DepthPct:    formulas.Round1(b.DepthPct),
			PriorRunPct: priorPct,
		},
		RelativeStrength: &domain.RelativeStrengthBlock{
			RS3M:         roundPtr2(rs3m),
			RSPercentile: roundPtr1(percentile),
			RSI14:        roundPtr1(ind.RSI14),
		},
		Breakout: &domain.BreakoutBlock{
			PivotPrice:         formulas.Round2(pivot.Price),
			PivotSource:        string(pivot.Source),
			DistanceToPivotPct: distance,
			InBreakout:         inBreakout,
		},
		Risk: &domain.RiskBlock{
			StopPrice:    levels.StopPrice,
			RiskPerShare: levels.RiskPerShare,
			RewardToRisk: levels.RewardToRisk,
			ATR14:        roundPtr2(levels.ATR14),
			StopMethod:   levels.StopMethod,
		},
	}
	return result
}

// rejectResult is the sentinel record for an ineligible or failed
// instrument. No partial scoring is exposed.
func rejectResult(symbol, reason string) domain.Result {
	return domain.Result{
		Symbol:       symbol,
		Eligible:     false,
		Grade:        domain.GradeReject,
		RejectReason: reason,
	}
}

func priorRunPct(run *domain.PriorRun) *float64 {
	if run == nil {
		return nil
	}
	return &run.Pct
}

func roundPtr1(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := formulas.Round1(*v)
	return &r
}

func roundPtr2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := formulas.Round2(*v)
	return &r
}
