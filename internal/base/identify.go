// Package base identifies consolidation bases, classifies their shape, and
// derives the pivot and prior run from them.
package base

import (
	"fmt"
	"math"

	"github.com/aristath/sepascan/internal/config"
	"github.com/aristath/sepascan/internal/domain"
	"github.com/aristath/sepascan/internal/series"
	"github.com/aristath/sepascan/pkg/formulas"
)

// lowVolCandidateDays is the recent window inspected by the low-volatility
// method. The window itself becomes the base when enough of it is quiet.
const lowVolCandidateDays = 20

// Identify finds the most recent consolidation in the series. Two methods
// are tried in order, first success wins: a low-volatility count over the
// recent window, then a raw price-range check over the last 30 or 60 days.
// Returns ErrNoValidBase when neither method produces a window that passes
// the length and depth bounds.
func Identify(s domain.Series, ind *series.Indicators, cfg *config.Config) (*domain.Base, error) {
	n := s.Len()

	if b := identifyLowVol(s, ind, cfg); b != nil {
		return b, nil
	}

	if b := identifyRange(s, ind, cfg); b != nil {
		return b, nil
	}

	return nil, fmt.Errorf("%s: %d bars inspected: %w", s.Symbol, n, domain.ErrNoValidBase)
}

// identifyLowVol takes the last lowVolCandidateDays bars as the candidate
// base when at least the configured fraction of them show volatility below
// the threshold. The threshold is a fraction of the average volatility over
// the whole available history.
func identifyLowVol(s domain.Series, ind *series.Indicators, cfg *config.Config) *domain.Base {
	n := s.Len()
	if n < lowVolCandidateDays || lowVolCandidateDays < cfg.Base.LowVolMinDays {
		return nil
	}

	threshold := formulas.MeanValid(ind.Volatility) * cfg.Base.LowVolMultiplier
	if threshold <= 0 {
		return nil
	}

	quiet := 0
	for i := n - lowVolCandidateDays; i < n; i++ {
		v := ind.Volatility[i]
		if !math.IsNaN(v) && v < threshold {
			quiet++
		}
	}
	fraction := float64(quiet) / float64(lowVolCandidateDays)
	if fraction < cfg.Base.LowVolFraction {
		return nil
	}

	return buildBase(s, n-lowVolCandidateDays, n-1, cfg)
}

// identifyRange falls back to a raw range check: the High-Low spread of the
// last 30 days (or 60 days with enough history) relative to the mean close.
func identifyRange(s domain.Series, _ *series.Indicators, cfg *config.Config) *domain.Base {
	n := s.Len()
	if n < cfg.Base.RangeShortDays {
		return nil
	}

	if rangePct(s, cfg.Base.RangeShortDays) <= cfg.Base.RangeShortMaxPct {
		return buildBase(s, n-cfg.Base.RangeShortDays, n-1, cfg)
	}

	longDays := cfg.Base.RangeLongDays
	if longDays > n {
		longDays = n
	}
	if n >= 40 && rangePct(s, longDays) <= cfg.Base.RangeLongMaxPct {
		return buildBase(s, n-longDays, n-1, cfg)
	}

	return nil
}

// rangePct is the High-Low spread of the last days bars as a percent of
// their mean close.
func rangePct(s domain.Series, days int) float64 {
	bars := s.Tail(days)
	high := domain.HighestHigh(bars)
	low := domain.LowestLow(bars)

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	meanClose := formulas.Mean(closes)
	if meanClose == 0 {
		return math.Inf(1)
	}
	return (high - low) / meanClose * 100.0
}

// buildBase constructs the base over [start, end] and applies the
// identification bounds. Returns nil when the window is too short, too
// long, or too deep.
func buildBase(s domain.Series, start, end int, cfg *config.Config) *domain.Base {
	bars := s.Window(start, end)
	high := domain.HighestHigh(bars)
	low := domain.LowestLow(bars)
	if high <= 0 {
		return nil
	}

	depthPct := (high - low) / high * 100.0
	lengthWeeks := float64(len(bars)) / 5.0

	if lengthWeeks < cfg.Base.MinLengthWeeks || lengthWeeks > cfg.Base.MaxLengthWeeks {
		return nil
	}
	if depthPct > cfg.Base.MaxDepthPct {
		return nil
	}

	return &domain.Base{
		StartDate:   bars[0].Date,
		EndDate:     bars[len(bars)-1].Date,
		StartIndex:  start,
		EndIndex:    end,
		High:        high,
		Low:         low,
		DepthPct:    depthPct,
		LengthWeeks: lengthWeeks,
	}
}
