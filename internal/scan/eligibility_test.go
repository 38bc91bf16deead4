package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/sepascan/internal/config"
	"github.com/aristath/sepascan/internal/domain"
	"github.com/aristath/sepascan/internal/trend"
)

func gateSeries(n int, close, volume float64) domain.Series {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]domain.Bar, n)
	for i := range bars {
		bars[i] = domain.Bar{
			Date: day.AddDate(0, 0, i), Open: close, High: close + 1, Low: close - 1,
			Close: close, Volume: volume,
		}
	}
	return domain.Series{Symbol: "TEST", Bars: bars}
}

func TestEligibilityAllGatesPass(t *testing.T) {
	cfg := config.Default()
	s := gateSeries(30, 50.0, 1e6)
	b := &domain.Base{StartIndex: 5, EndIndex: 25}

	e := evaluateEligibility(s, trend.Assessment{Stage2: true}, b, cfg)

	assert.True(t, e.Stage2)
	assert.True(t, e.HasValidBase)
	assert.True(t, e.LiquidityOK)
	assert.True(t, e.PriceThresholdOK)
	assert.True(t, e.Eligible)
	assert.Empty(t, e.Reasons)
}

func TestEligibilityStage2Failure(t *testing.T) {
	cfg := config.Default()
	s := gateSeries(30, 50.0, 1e6)
	a := trend.Assessment{
		Stage2:   false,
		Failures: []string{"one", "two", "three", "four"},
	}

	e := evaluateEligibility(s, a, &domain.Base{}, cfg)

	assert.False(t, e.Eligible)
	assert.Equal(t, []string{"one", "two", "three"}, e.Reasons, "reasons capped at three")
}

func TestEligibilityMissingBase(t *testing.T) {
	cfg := config.Default()
	s := gateSeries(30, 50.0, 1e6)

	e := evaluateEligibility(s, trend.Assessment{Stage2: true}, nil, cfg)

	assert.False(t, e.HasValidBase)
	assert.False(t, e.Eligible)
	assert.Contains(t, e.Reasons, "no valid base identified")
}

func TestEligibilityIlliquid(t *testing.T) {
	cfg := config.Default()
	// 50 * 10_000 = 500k daily dollar volume, under the 1M floor.
	s := gateSeries(30, 50.0, 1e4)

	e := evaluateEligibility(s, trend.Assessment{Stage2: true}, &domain.Base{}, cfg)

	assert.False(t, e.LiquidityOK)
	assert.False(t, e.Eligible)
}

func TestEligibilityPennyPrice(t *testing.T) {
	cfg := config.Default()
	s := gateSeries(30, 3.0, 1e6)

	e := evaluateEligibility(s, trend.Assessment{Stage2: true}, &domain.Base{}, cfg)

	assert.False(t, e.PriceThresholdOK)
	assert.False(t, e.Eligible)
}
