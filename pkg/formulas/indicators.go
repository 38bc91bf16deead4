package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// CalculateSMASeries calculates the Simple Moving Average series.
// The first period-1 entries are not meaningful and are returned as NaN.
//
// Args:
//
//	closes: Array of closing prices
//	period: SMA period (50, 150, 200)
//
// Returns:
//
//	Slice of the same length as closes, or nil if insufficient data
func CalculateSMASeries(closes []float64, period int) []float64 {
	if len(closes) < period {
		return nil
	}

	sma := talib.Sma(closes, period)
	for i := 0; i < period-1 && i < len(sma); i++ {
		sma[i] = math.NaN()
	}
	return sma
}

// CalculateSMA calculates the current Simple Moving Average value.
func CalculateSMA(closes []float64, period int) *float64 {
	sma := CalculateSMASeries(closes, period)
	if len(sma) == 0 || isNaN(sma[len(sma)-1]) {
		return nil
	}
	result := sma[len(sma)-1]
	return &result
}

// CalculateRSI calculates the Relative Strength Index over the trailing window.
//
// RSI Formula:
//
//	RSI = 100 - (100 / (1 + RS))
//	where RS = mean(gains, period) / mean(losses, period)
//
// The gain/loss means are plain rolling means over the last `period` daily
// deltas. A window with zero losses yields RSI = 100 by definition.
//
// Returns:
//
//	Current RSI value (0-100) or nil if insufficient data
func CalculateRSI(closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}

	gainSum := 0.0
	lossSum := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum += -delta
		}
	}

	meanGain := gainSum / float64(period)
	meanLoss := lossSum / float64(period)
	if meanLoss == 0 {
		result := 100.0
		return &result
	}

	rs := meanGain / meanLoss
	result := 100.0 - 100.0/(1.0+rs)
	return &result
}

// CalculateATR calculates the Average True Range as a rolling mean of the
// true range over the last `period` bars. Needs period+1 bars so every true
// range has a previous close.
//
// Returns:
//
//	Current ATR value or nil if insufficient data
func CalculateATR(highs, lows, closes []float64, period int) *float64 {
	n := len(closes)
	if n < period+1 || len(highs) != n || len(lows) != n {
		return nil
	}

	trSum := 0.0
	for i := n - period; i < n; i++ {
		prevClose := closes[i-1]
		tr := highs[i] - lows[i]
		if d := math.Abs(highs[i] - prevClose); d > tr {
			tr = d
		}
		if d := math.Abs(lows[i] - prevClose); d > tr {
			tr = d
		}
		trSum += tr
	}

	result := trSum / float64(period)
	return &result
}

// CalculateRollingVolatility calculates the rolling standard deviation of
// fractional daily returns. Entry i holds the std of the `window` returns
// ending at price index i; entries without a full window are NaN.
func CalculateRollingVolatility(closes []float64, window int) []float64 {
	vols := make([]float64, len(closes))
	for i := range vols {
		vols[i] = math.NaN()
	}
	if len(closes) < window+1 {
		return vols
	}

	returns := CalculateReturns(closes)
	for i := window; i < len(returns)+1; i++ {
		vols[i] = StdDev(returns[i-window : i])
	}
	return vols
}

// MeanValid calculates the mean over the non-NaN entries of data.
// Returns 0 when no valid entries exist.
func MeanValid(data []float64) float64 {
	sum := 0.0
	count := 0
	for _, v := range data {
		if !isNaN(v) {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
