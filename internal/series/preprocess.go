// Package series derives the indicator set every downstream stage reads.
package series

import (
	"fmt"

	"github.com/aristath/sepascan/internal/config"
	"github.com/aristath/sepascan/internal/domain"
	"github.com/aristath/sepascan/pkg/formulas"
)

// Indicators holds everything the classifiers and scorers need, computed
// once per instrument per cycle. Slice fields are aligned with the bars of
// the source series (NaN-padded where a window is incomplete).
type Indicators struct {
	Closes  []float64
	Highs   []float64
	Lows    []float64
	Volumes []float64

	SMA50Series  []float64
	SMA150Series []float64
	SMA200Series []float64

	SMA50  float64
	SMA150 float64
	SMA200 float64

	Volatility []float64 // rolling std of daily fractional returns

	RSI14 *float64
	ATR14 *float64

	High52w float64
	Low52w  float64
}

// Preprocess computes the indicator set for one series. Fails with
// ErrInsufficientHistory when the series cannot cover the longest lookback
// (the 200-day moving average).
func Preprocess(s domain.Series, cfg *config.Config) (*Indicators, error) {
	if s.Len() < cfg.Eligibility.MinHistoryDays {
		return nil, fmt.Errorf("%s: %d bars, need %d: %w",
			s.Symbol, s.Len(), cfg.Eligibility.MinHistoryDays, domain.ErrInsufficientHistory)
	}

	closes := s.Closes()
	highs := s.Highs()
	lows := s.Lows()
	volumes := s.Volumes()

	ind := &Indicators{
		Closes:  closes,
		Highs:   highs,
		Lows:    lows,
		Volumes: volumes,

		SMA50Series:  formulas.CalculateSMASeries(closes, 50),
		SMA150Series: formulas.CalculateSMASeries(closes, 150),
		SMA200Series: formulas.CalculateSMASeries(closes, 200),

		Volatility: formulas.CalculateRollingVolatility(closes, cfg.Base.VolatilityWindow),

		RSI14: formulas.CalculateRSI(closes, cfg.Scoring.RSIPeriod),
		ATR14: formulas.CalculateATR(highs, lows, closes, cfg.Risk.ATRPeriod),
	}

	ind.SMA50 = last(ind.SMA50Series)
	ind.SMA150 = last(ind.SMA150Series)
	ind.SMA200 = last(ind.SMA200Series)

	// 52-week window, capped at the available history.
	yearDays := 252
	if s.Len() < yearDays {
		yearDays = s.Len()
	}
	yearBars := s.Tail(yearDays)
	ind.High52w = domain.HighestHigh(yearBars)
	ind.Low52w = domain.LowestLow(yearBars)

	return ind, nil
}

func last(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}
