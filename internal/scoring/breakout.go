package scoring

import (
	"github.com/aristath/sepascan/internal/config"
	"github.com/aristath/sepascan/internal/domain"
	"github.com/aristath/sepascan/pkg/formulas"
)

// Pre-breakout distance tiers, percent relative to the pivot.
const (
	breakoutTightLowPct = -3.0
	breakoutNearLowPct  = -5.0
)

// BreakoutCheck is the outcome of the breakout day rules against the pivot.
type BreakoutCheck struct {
	Cleared       bool
	BreakoutIndex int // index into the series, -1 when not cleared
	ClosePosition float64
	VolumeRatio   float64
	Passed        bool
}

// BreakoutScorer grades breakout confirmation against the pivot.
type BreakoutScorer struct {
	cfg *config.Config
}

// NewBreakoutScorer creates a new breakout scorer
func NewBreakoutScorer(cfg *config.Config) *BreakoutScorer {
	return &BreakoutScorer{cfg: cfg}
}

// Check scans the last few bars for a close clearing the pivot by the
// configured margin. The first clearing bar is the breakout day: its close
// must land high in the daily range, and volume must expand over the
// average on that day or within the following confirmation days.
func (bo *BreakoutScorer) Check(s domain.Series, pivot float64) BreakoutCheck {
	check := BreakoutCheck{BreakoutIndex: -1}
	if pivot <= 0 {
		return check
	}

	clearance := pivot * (1 + bo.cfg.Breakout.ClearancePct/100.0)
	n := s.Len()
	start := n - bo.cfg.Breakout.LookbackDays
	if start < 0 {
		start = 0
	}

	for i := start; i < n; i++ {
		if s.Bars[i].Close >= clearance {
			check.Cleared = true
			check.BreakoutIndex = i
			break
		}
	}
	if !check.Cleared {
		return check
	}

	day := s.Bars[check.BreakoutIndex]
	dailyRange := day.High - day.Low
	closeOK := false
	if dailyRange > 0 {
		check.ClosePosition = (day.Close - day.Low) / dailyRange * 100.0
		closeOK = check.ClosePosition >= bo.cfg.Breakout.MinClosePosition
	}

	avgVol := meanVolume(s.Tail(bo.cfg.Scoring.AvgVolumeDays))
	volumeOK := false
	if avgVol > 0 {
		end := check.BreakoutIndex + 1 + bo.cfg.Breakout.VolumeConfirmDays
		if end > n {
			end = n
		}
		for i := check.BreakoutIndex; i < end; i++ {
			ratio := s.Bars[i].Volume / avgVol
			if i == check.BreakoutIndex {
				check.VolumeRatio = ratio
			}
			if ratio >= bo.cfg.Breakout.VolumeRatio {
				check.VolumeRatio = ratio
				volumeOK = true
				break
			}
		}
	}

	check.Passed = closeOK && volumeOK
	return check
}

// Calculate returns 100 for a confirmed breakout. Otherwise the score is a
// tier on the distance to the pivot: tight just under the pivot is best,
// extended above the pivot without confirmation is worst but nonzero.
func (bo *BreakoutScorer) Calculate(check BreakoutCheck, distanceToPivotPct float64) float64 {
	if check.Passed {
		return 100.0
	}
	if distanceToPivotPct >= breakoutTightLowPct && distanceToPivotPct <= 0 {
		return 80.0
	}
	if distanceToPivotPct >= breakoutNearLowPct && distanceToPivotPct < breakoutTightLowPct {
		return 60.0
	}
	if distanceToPivotPct > bo.cfg.Trend.ExtendedDistancePct {
		return 30.0
	}
	return 50.0
}

// DistanceToPivot is the percent distance of the current price from the
// pivot, negative below it.
func DistanceToPivot(price, pivot float64) float64 {
	return formulas.PercentChange(pivot, price)
}
