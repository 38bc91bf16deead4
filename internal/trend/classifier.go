// Package trend implements the stage-2 trend template check.
package trend

import (
	"fmt"
	"math"

	"github.com/aristath/sepascan/internal/config"
	"github.com/aristath/sepascan/internal/domain"
	"github.com/aristath/sepascan/internal/series"
	"github.com/aristath/sepascan/pkg/formulas"
)

// Assessment is the outcome of the trend template. Stage2 is the AND of
// every structural check; the percentages are kept for the graded trend
// score, which needs them even though the gate itself is binary.
type Assessment struct {
	Stage2 bool

	PctAbove200 float64
	PctFromLow  float64
	PctFromHigh float64

	Failures []string
}

// Classify runs the trend template against one instrument. Every check must
// pass for Stage2: price above all three moving averages, the averages in
// bullish order, all three rising, price far enough off the 52-week low and
// close enough to the 52-week high.
func Classify(s domain.Series, ind *series.Indicators, cfg *config.Config) Assessment {
	a := Assessment{Stage2: true}
	price := s.Last().Close

	above50 := price > ind.SMA50
	above150 := price > ind.SMA150
	above200 := price > ind.SMA200
	if !above50 {
		a.fail("price below 50 SMA")
	}
	if !above150 {
		a.fail("price below 150 SMA")
	}
	if !above200 {
		a.fail("price below 200 SMA")
	}

	if !(ind.SMA50 > ind.SMA150 && ind.SMA150 > ind.SMA200) {
		a.fail("SMA order incorrect (need 50 > 150 > 200)")
	}

	checkSlopes(&a, s.Len(), ind, cfg)

	a.PctFromLow = formulas.PercentChange(ind.Low52w, price)
	if a.PctFromLow < cfg.Trend.Above52wLowPct {
		a.fail(fmt.Sprintf("price only %.1f%% above 52-week low", a.PctFromLow))
	}

	if ind.High52w > 0 {
		a.PctFromHigh = (ind.High52w - price) / ind.High52w * 100.0
	}
	if a.PctFromHigh > cfg.Trend.Near52wHighPct {
		a.fail(fmt.Sprintf("price %.1f%% below 52-week high", a.PctFromHigh))
	}

	if ind.SMA200 > 0 {
		a.PctAbove200 = (price - ind.SMA200) / ind.SMA200 * 100.0
	}

	return a
}

// checkSlopes requires all three averages to be higher than they were
// lookback bars ago. With too little history for the full window, only the
// 50 SMA is checked over the shorter recent window.
func checkSlopes(a *Assessment, n int, ind *series.Indicators, cfg *config.Config) {
	lookback := cfg.Trend.SlopeLookbackDays
	if n >= 200+lookback {
		if !rising(ind.SMA50Series, lookback) {
			a.fail("50 SMA not sloping up")
		}
		if !rising(ind.SMA150Series, lookback) {
			a.fail("150 SMA not sloping up")
		}
		if !rising(ind.SMA200Series, lookback) {
			a.fail("200 SMA not sloping up")
		}
		return
	}
	if n >= 50+cfg.Trend.SlopeRecentDays {
		if !rising(ind.SMA50Series, cfg.Trend.SlopeRecentDays) {
			a.fail("50 SMA not sloping up")
		}
	}
}

func rising(sma []float64, lookback int) bool {
	n := len(sma)
	if n < lookback || lookback < 1 {
		return false
	}
	prev := sma[n-lookback]
	cur := sma[n-1]
	if math.IsNaN(prev) || math.IsNaN(cur) {
		return false
	}
	return cur > prev
}

func (a *Assessment) fail(reason string) {
	a.Stage2 = false
	a.Failures = append(a.Failures, reason)
}
