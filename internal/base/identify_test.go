package base

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/sepascan/internal/config"
	"github.com/aristath/sepascan/internal/domain"
	"github.com/aristath/sepascan/internal/series"
)

// growthSeries builds an uptrend of nGrow bars (alternating up/dn factors)
// followed by nBase quiet bars wiggling by the given fraction. Volume is
// 1e6 during the advance and 7e5 inside the quiet tail.
func growthSeries(nGrow, nBase int, up, dn, wiggle float64) domain.Series {
	day := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	closes := make([]float64, 0, nGrow+nBase)
	c := 10.0
	closes = append(closes, c)
	for i := 1; i < nGrow; i++ {
		if i%2 == 1 {
			c *= up
		} else {
			c *= dn
		}
		closes = append(closes, c)
	}
	for i := 0; i < nBase; i++ {
		if i%2 == 0 {
			c *= 1 + wiggle
		} else {
			c *= 1 - wiggle
		}
		closes = append(closes, c)
	}

	bars := make([]domain.Bar, len(closes))
	for i, cl := range closes {
		open := cl
		if i > 0 {
			open = closes[i-1]
		}
		volume := 1e6
		if i >= nGrow {
			volume = 7e5
		}
		bars[i] = domain.Bar{
			Date:   day.AddDate(0, 0, i),
			Open:   open,
			High:   cl * 1.01,
			Low:    cl * 0.99,
			Close:  cl,
			Volume: volume,
		}
	}
	return domain.Series{Symbol: "TEST", Bars: bars}
}

func TestIdentifyLowVolBase(t *testing.T) {
	cfg := config.Default()
	s := growthSeries(240, 20, 1.012, 0.998, 0.0005)
	ind, err := series.Preprocess(s, cfg)
	require.NoError(t, err)

	b, err := Identify(s, ind, cfg)
	require.NoError(t, err)

	assert.Equal(t, 240, b.StartIndex)
	assert.Equal(t, 259, b.EndIndex)
	assert.Equal(t, 4.0, b.LengthWeeks)
	assert.Less(t, b.DepthPct, 5.0, "quiet tail is a shallow base")
}

func TestIdentifyRangeFallback(t *testing.T) {
	cfg := config.Default()
	// Uniform oscillation: volatility never drops below the trailing
	// average, but the band is narrow enough for the 30-day range method.
	s := growthSeries(260, 0, 1.03, 1/1.03, 0)
	ind, err := series.Preprocess(s, cfg)
	require.NoError(t, err)

	b, err := Identify(s, ind, cfg)
	require.NoError(t, err)

	assert.Equal(t, s.Len()-cfg.Base.RangeShortDays, b.StartIndex)
	assert.Equal(t, 6.0, b.LengthWeeks)
	assert.Less(t, b.DepthPct, 10.0)
}

func TestIdentifyNoBaseInPureTrend(t *testing.T) {
	cfg := config.Default()
	// A steady advance is never quiet and never range-bound.
	s := growthSeries(260, 0, 1.012, 0.998, 0)
	ind, err := series.Preprocess(s, cfg)
	require.NoError(t, err)

	_, err = Identify(s, ind, cfg)
	assert.ErrorIs(t, err, domain.ErrNoValidBase)
}

func TestPriorRun(t *testing.T) {
	cfg := config.Default()
	s := growthSeries(240, 20, 1.012, 0.998, 0.0005)
	ind, err := series.Preprocess(s, cfg)
	require.NoError(t, err)
	b, err := Identify(s, ind, cfg)
	require.NoError(t, err)

	run := PriorRun(s, b, cfg)
	require.NotNil(t, run)
	assert.Equal(t, cfg.Base.PriorRunDays, run.LookbackDays)
	assert.Greater(t, run.Pct, 25.0, "a steady advance precedes the base")
	assert.Less(t, run.Pct, 100.0)
}

func TestPriorRunTooLittleHistory(t *testing.T) {
	cfg := config.Default()
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]domain.Bar, 25)
	for i := range bars {
		bars[i] = domain.Bar{Date: day.AddDate(0, 0, i), High: 101, Low: 99, Close: 100, Volume: 1e6}
	}
	s := domain.Series{Symbol: "TEST", Bars: bars}

	b := &domain.Base{StartIndex: 3, EndIndex: 24, High: 101, Low: 99}
	assert.Nil(t, PriorRun(s, b, cfg), "fewer than the minimum bars before the base")

	b.StartIndex = 0
	assert.Nil(t, PriorRun(s, b, cfg), "base at the very start of the history")
}
