package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSMASeries(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}

	sma := CalculateSMASeries(closes, 5)
	require.Len(t, sma, 5)
	for i := 0; i < 4; i++ {
		assert.True(t, math.IsNaN(sma[i]), "entry %d should be NaN", i)
	}
	assert.InDelta(t, 3.0, sma[4], 1e-9)

	assert.Nil(t, CalculateSMASeries(closes, 6), "insufficient data")
}

func TestCalculateSMA(t *testing.T) {
	closes := []float64{2, 4, 6, 8}
	sma := CalculateSMA(closes, 4)
	require.NotNil(t, sma)
	assert.InDelta(t, 5.0, *sma, 1e-9)

	assert.Nil(t, CalculateSMA([]float64{1, 2}, 3))
}

func TestCalculateRSI(t *testing.T) {
	t.Run("mixed gains and losses", func(t *testing.T) {
		// Deltas over the window: +2, -1, +2.
		// mean gain 4/3, mean loss 1/3, RS 4, RSI 80.
		closes := []float64{10, 12, 11, 13}
		rsi := CalculateRSI(closes, 3)
		require.NotNil(t, rsi)
		assert.InDelta(t, 80.0, *rsi, 1e-9)
	})

	t.Run("gains only window is maximally strong", func(t *testing.T) {
		closes := []float64{10, 11, 12, 13}
		rsi := CalculateRSI(closes, 3)
		require.NotNil(t, rsi)
		assert.Equal(t, 100.0, *rsi)
	})

	t.Run("losses only window", func(t *testing.T) {
		closes := []float64{13, 12, 11, 10}
		rsi := CalculateRSI(closes, 3)
		require.NotNil(t, rsi)
		assert.InDelta(t, 0.0, *rsi, 1e-9)
	})

	t.Run("insufficient data", func(t *testing.T) {
		assert.Nil(t, CalculateRSI([]float64{10, 11, 12}, 3))
	})
}

func TestCalculateATR(t *testing.T) {
	highs := []float64{10.5, 11.5, 12.5}
	lows := []float64{9.5, 10.5, 11.5}
	closes := []float64{10, 11, 12}

	// True range is 1.5 on both usable bars: the gap to the prior close
	// beats the bar's own range.
	atr := CalculateATR(highs, lows, closes, 2)
	require.NotNil(t, atr)
	assert.InDelta(t, 1.5, *atr, 1e-9)

	assert.Nil(t, CalculateATR(highs, lows, closes, 3), "needs period+1 bars")
	assert.Nil(t, CalculateATR(highs[:2], lows, closes, 2), "mismatched lengths")
}

func TestCalculateRollingVolatility(t *testing.T) {
	closes := []float64{10, 11, 12, 13}
	vols := CalculateRollingVolatility(closes, 2)
	require.Len(t, vols, 4)

	assert.True(t, math.IsNaN(vols[0]))
	assert.True(t, math.IsNaN(vols[1]))
	assert.False(t, math.IsNaN(vols[2]))
	assert.False(t, math.IsNaN(vols[3]))
	assert.Greater(t, vols[2], 0.0)
}

func TestMeanValid(t *testing.T) {
	data := []float64{math.NaN(), 2, 4, math.NaN()}
	assert.InDelta(t, 3.0, MeanValid(data), 1e-9)
	assert.Equal(t, 0.0, MeanValid([]float64{math.NaN()}))
}
